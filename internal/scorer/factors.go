package scorer

import (
	"strings"
	"time"

	"github.com/sells-group/leadscore/internal/model"
)

// Factor names used in breakdowns and weight lookups.
const (
	FactorBudget        = "budget"
	FactorIndustry      = "industry"
	FactorCompanySize   = "company_size"
	FactorEngagement    = "engagement"
	FactorStatus        = "status"
	FactorDecisionMaker = "decision_maker"
)

// Lowest-bucket sub-scores, contributed when a factor's input is missing or
// the factor faults.
const (
	budgetFloor        = 10.0
	industryFloor      = 50.0
	engagementFloor    = 20.0
	statusFloor        = 20.0
	decisionMakerFloor = 40.0
)

// budgetBuckets maps budget thresholds (inclusive lower bound) to sub-scores.
var budgetBuckets = []struct {
	min   float64
	score float64
}{
	{100_000, 100},
	{50_000, 85},
	{25_000, 70},
	{10_000, 55},
	{5_000, 40},
	{1_000, 25},
}

// ScoreBudget returns the sub-score for a normalized, non-negative budget.
func ScoreBudget(budget float64) float64 {
	for _, b := range budgetBuckets {
		if budget >= b.min {
			return b.score
		}
	}
	return budgetFloor
}

// industryScores maps preferred industries to sub-scores, based on typical
// conversion rates.
var industryScores = map[string]float64{
	"technology":    85,
	"finance":       80,
	"healthcare":    75,
	"manufacturing": 70,
	"retail":        65,
	"education":     60,
	"non-profit":    50,
	"other":         55,
}

// ScoreIndustry returns the sub-score for an industry. Unrecognized industry
// names score as "other"; a missing industry contributes the lowest bucket.
func ScoreIndustry(industry string) float64 {
	key := strings.ToLower(strings.TrimSpace(industry))
	if key == "" {
		return industryFloor
	}
	if s, ok := industryScores[key]; ok {
		return s
	}
	return industryScores["other"]
}

// statusScores maps lifecycle stages to sub-scores.
var statusScores = map[model.LeadStatus]float64{
	model.StatusCustomer:   100,
	model.StatusHot:        95,
	model.StatusQualified:  80,
	model.StatusInterested: 65,
	model.StatusLead:       50,
	model.StatusCold:       20,
}

// ScoreStatus returns the sub-score for a lifecycle stage. Unrecognized
// stages score as a plain lead; a missing stage contributes the lowest bucket.
func ScoreStatus(status model.LeadStatus) float64 {
	key := model.NormalizeStatus(status)
	if key == "" {
		return statusFloor
	}
	if s, ok := statusScores[key]; ok {
		return s
	}
	return statusScores[model.StatusLead]
}

// engagementBuckets maps interaction-count thresholds to sub-scores.
var engagementBuckets = []struct {
	min   int
	score float64
}{
	{20, 100},
	{10, 85},
	{5, 70},
	{3, 55},
	{1, 40},
}

// ScoreEngagementCount returns the sub-score for a bare interaction count,
// used when no interaction history is available.
func ScoreEngagementCount(count int) float64 {
	for _, b := range engagementBuckets {
		if count >= b.min {
			return b.score
		}
	}
	return engagementFloor
}

// activityPoints weighs interaction types by buying intent.
var activityPoints = map[string]float64{
	"email_open":    5,
	"email_click":   10,
	"website_visit": 8,
	"demo_request":  25,
	"phone_call":    20,
	"meeting":       30,
	"proposal_view": 15,
	"chatbot":       7,
}

const defaultActivityPoints = 3

// ScoreInteractions returns the sub-score for a full interaction history.
// Recent interactions are worth more, and consistent recent engagement earns
// a bonus. The reference time is injected so scoring stays deterministic.
func ScoreInteractions(interactions []model.Interaction, now time.Time) float64 {
	if len(interactions) == 0 {
		return engagementFloor
	}

	var total float64
	var recent int
	for _, in := range interactions {
		points, ok := activityPoints[strings.ToLower(in.Type)]
		if !ok {
			points = defaultActivityPoints
		}

		switch {
		case within(in.CreatedAt, now, 7*24*time.Hour):
			points *= 1.5
			recent++
		case within(in.CreatedAt, now, 30*24*time.Hour):
			points *= 1.2
		}

		total += points
	}

	score := total
	if score > 100 {
		score = 100
	}
	if recent >= 3 {
		score += 15
		if score > 100 {
			score = 100
		}
	}
	return score
}

// decisionTiers pairs authority keyword sets with sub-scores, most senior
// first.
var decisionTiers = []struct {
	keywords []string
	score    float64
}{
	{[]string{"ceo", "cto", "cfo", "president", "owner"}, 95},
	{[]string{"vice president", "vp", "director"}, 80},
	{[]string{"head of", "manager"}, 65},
}

// ScoreDecisionMaker scans the contact name and notes for decision-making
// authority indicators. No indicator yields the unknown-authority bucket.
func ScoreDecisionMaker(name, notes string) float64 {
	haystack := strings.ToLower(name + " " + notes)
	for _, tier := range decisionTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(haystack, kw) {
				return tier.score
			}
		}
	}
	return decisionMakerFloor
}

func within(t, now time.Time, d time.Duration) bool {
	if t.IsZero() {
		return false
	}
	age := now.Sub(t)
	return age >= 0 && age <= d
}
