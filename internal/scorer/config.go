// Package scorer implements composite lead scoring: independent factor
// scorers combined by fixed weights into a single 0-100 qualification score.
package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore/internal/config"
)

// DefaultWeights returns the standard factor weight vector (sum = 1.0).
func DefaultWeights() config.ScorerConfig {
	return config.ScorerConfig{
		BudgetWeight:        0.25,
		IndustryWeight:      0.15,
		CompanySizeWeight:   0.15,
		EngagementWeight:    0.20,
		StatusWeight:        0.10,
		DecisionMakerWeight: 0.15,
	}
}

// WeightSum returns the sum of all factor weights.
func WeightSum(c config.ScorerConfig) float64 {
	return c.BudgetWeight + c.IndustryWeight + c.CompanySizeWeight +
		c.EngagementWeight + c.StatusWeight + c.DecisionMakerWeight
}

// ValidateWeights checks that a weight vector is usable: every weight
// non-negative and the sum within tolerance of 1.0.
func ValidateWeights(c config.ScorerConfig) error {
	var errs []string

	weights := map[string]float64{
		"budget_weight":         c.BudgetWeight,
		"industry_weight":       c.IndustryWeight,
		"company_size_weight":   c.CompanySizeWeight,
		"engagement_weight":     c.EngagementWeight,
		"status_weight":         c.StatusWeight,
		"decision_maker_weight": c.DecisionMakerWeight,
	}
	for name, w := range weights {
		if w < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	sum := WeightSum(c)
	if math.Abs(sum-1.0) > 0.01 {
		errs = append(errs, fmt.Sprintf("weights should sum to 1.0, got %.3f", sum))
	}

	if len(errs) > 0 {
		return eris.Errorf("scorer: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

// weightFor returns the configured weight for a factor name.
func weightFor(c config.ScorerConfig, factor string) float64 {
	switch factor {
	case FactorBudget:
		return c.BudgetWeight
	case FactorIndustry:
		return c.IndustryWeight
	case FactorCompanySize:
		return c.CompanySizeWeight
	case FactorEngagement:
		return c.EngagementWeight
	case FactorStatus:
		return c.StatusWeight
	case FactorDecisionMaker:
		return c.DecisionMakerWeight
	default:
		return 0
	}
}
