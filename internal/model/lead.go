package model

import (
	"strings"
	"time"
)

// LeadStatus represents the lifecycle stage of a lead.
type LeadStatus string

const (
	StatusCustomer   LeadStatus = "customer"
	StatusHot        LeadStatus = "hot"
	StatusQualified  LeadStatus = "qualified"
	StatusInterested LeadStatus = "interested"
	StatusLead       LeadStatus = "lead"
	StatusCold       LeadStatus = "cold"
)

// Lead is the inbound customer record handed to the scoring engine.
// Fields arrive from the CRUD layer with plausible-but-unverified types:
// Budget in particular may be a number, a numeric string, or absent, which
// is why it is typed `any` and resolved by the normalize package.
type Lead struct {
	ID               string        `json:"id,omitempty"`
	Name             string        `json:"name"`
	Company          string        `json:"company"`
	Website          string        `json:"website,omitempty"`
	Email            string        `json:"email,omitempty"`
	Phone            string        `json:"phone,omitempty"`
	Budget           any           `json:"budget,omitempty"`
	Industry         string        `json:"industry,omitempty"`
	Status           LeadStatus    `json:"status,omitempty"`
	Notes            string        `json:"notes,omitempty"`
	InteractionCount *int          `json:"interaction_count,omitempty"`
	Interactions     []Interaction `json:"interactions,omitempty"`
}

// Interaction is a single recorded touchpoint with a lead.
type Interaction struct {
	Type      string    `json:"type"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// SizeCategory is a discrete company-size classification.
type SizeCategory string

const (
	SizeLargeEnterprise SizeCategory = "large_enterprise"
	SizeMediumBusiness  SizeCategory = "medium_business"
	SizeSmallBusiness   SizeCategory = "small_business"
	SizeGeneric         SizeCategory = "generic"
	SizeMissing         SizeCategory = "missing"
)

// categoryScores is the fixed mapping from size category to sub-score.
var categoryScores = map[SizeCategory]float64{
	SizeLargeEnterprise: 90,
	SizeMediumBusiness:  70,
	SizeSmallBusiness:   50,
	SizeGeneric:         40,
	SizeMissing:         30,
}

// Score returns the fixed sub-score for the category. Unknown categories
// map to the Missing score so a corrupt value can never inflate a lead.
func (c SizeCategory) Score() float64 {
	if s, ok := categoryScores[c]; ok {
		return s
	}
	return categoryScores[SizeMissing]
}

// EstimateSource records which strategy produced a category estimate.
type EstimateSource string

const (
	SourceRemote    EstimateSource = "remote"
	SourceHeuristic EstimateSource = "heuristic"
)

// CategoryEstimate is the result of company-size estimation: the category,
// its mapped sub-score, and which strategy produced it.
type CategoryEstimate struct {
	Category SizeCategory   `json:"category"`
	Source   EstimateSource `json:"source"`
	Score    float64        `json:"score"`
}

// FactorScore is one factor's raw sub-score and the weight applied to it.
type FactorScore struct {
	Score  float64 `json:"score"`
	Weight float64 `json:"weight"`
}

// Breakdown enumerates every factor that contributed to a composite score.
type Breakdown struct {
	Factors        map[string]FactorScore `json:"factors"`
	CategorySource EstimateSource         `json:"category_source"`
}

// ScoreResult is the engine's output for a single lead.
type ScoreResult struct {
	Score                 float64    `json:"score"`
	Grade                 string     `json:"grade"`
	Priority              string     `json:"priority"`
	ConversionProbability float64    `json:"conversion_probability"`
	Breakdown             *Breakdown `json:"breakdown,omitempty"`
}

// ScoredLead pairs a lead with its scoring result for batch output.
type ScoredLead struct {
	Lead   Lead        `json:"lead"`
	Result ScoreResult `json:"result"`
}

// NormalizeStatus lowercases and trims a status value so lifecycle matching
// is insensitive to CRUD-layer casing.
func NormalizeStatus(s LeadStatus) LeadStatus {
	return LeadStatus(strings.ToLower(strings.TrimSpace(string(s))))
}
