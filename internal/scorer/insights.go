package scorer

import (
	"fmt"
	"math"

	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/normalize"
)

// Grade converts a composite score to a letter grade.
func Grade(score float64) string {
	switch {
	case score >= 85:
		return "A"
	case score >= 70:
		return "B"
	case score >= 55:
		return "C"
	case score >= 40:
		return "D"
	default:
		return "F"
	}
}

// Priority maps a composite score to a triage priority.
func Priority(score float64) string {
	switch {
	case score >= 70:
		return "High"
	case score >= 40:
		return "Medium"
	default:
		return "Low"
	}
}

// ConversionProbability estimates conversion likelihood from the composite
// score via a logistic curve centered at 50, returned as a percentage with
// one decimal.
func ConversionProbability(score float64) float64 {
	x := (score - 50) / 10
	p := 1 / (1 + math.Exp(-x))
	return math.Round(p*1000) / 10
}

// Insights summarizes a scored lead for sales staff.
type Insights struct {
	Score                 float64  `json:"score"`
	Grade                 string   `json:"grade"`
	Priority              string   `json:"priority"`
	ConversionProbability float64  `json:"conversion_probability"`
	Strengths             []string `json:"strengths"`
	Weaknesses            []string `json:"weaknesses"`
	Recommendations       []string `json:"recommendations"`
}

// highValueIndustries convert notably better than the rest of the table.
var highValueIndustries = map[string]bool{
	"technology": true,
	"finance":    true,
	"healthcare": true,
}

// BuildInsights derives qualitative guidance from a lead and its result.
func BuildInsights(lead model.Lead, result model.ScoreResult) Insights {
	ins := Insights{
		Score:                 result.Score,
		Grade:                 result.Grade,
		Priority:              result.Priority,
		ConversionProbability: result.ConversionProbability,
	}

	if normalize.Budget(lead.Budget) > 10_000 {
		ins.Strengths = append(ins.Strengths, "High budget availability")
	} else {
		ins.Weaknesses = append(ins.Weaknesses, "Limited budget")
		ins.Recommendations = append(ins.Recommendations, "Focus on ROI demonstration")
	}

	if highValueIndustries[lead.Industry] {
		ins.Strengths = append(ins.Strengths, fmt.Sprintf("High-converting industry: %s", lead.Industry))
	}

	switch {
	case result.Score > 70:
		ins.Recommendations = append(ins.Recommendations,
			"Schedule immediate follow-up",
			"Assign to senior sales rep",
		)
	case result.Score > 40:
		ins.Recommendations = append(ins.Recommendations,
			"Nurture with targeted content",
			"Schedule follow-up in 1 week",
		)
	default:
		ins.Recommendations = append(ins.Recommendations,
			"Add to long-term nurture campaign",
			"Re-evaluate in 30 days",
		)
	}

	return ins
}
