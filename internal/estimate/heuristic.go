package estimate

import (
	"context"
	"strings"

	"github.com/sells-group/leadscore/internal/model"
)

// keywordTier is one rung of the heuristic ladder: if the company name
// contains any keyword, the tier's category wins.
type keywordTier struct {
	keywords []string
	category model.SizeCategory
}

// heuristicTiers is evaluated in order; the first match wins. The order is a
// tie-break rule with observable behavior ("Enterprise Inc" is a large
// enterprise, not a medium business), so it must not be reordered.
var heuristicTiers = []keywordTier{
	{
		keywords: []string{"enterprise", "global", "international", "corporation"},
		category: model.SizeLargeEnterprise,
	},
	{
		keywords: []string{"inc", "llc", "ltd", "company"},
		category: model.SizeMediumBusiness,
	},
	{
		keywords: []string{"startup", "ventures"},
		category: model.SizeSmallBusiness,
	},
}

// HeuristicEstimator classifies company size from name keywords. It is
// deterministic, sub-millisecond, and always available, which makes it the
// universal fallback for the remote strategy.
type HeuristicEstimator struct{}

// NewHeuristicEstimator creates a HeuristicEstimator.
func NewHeuristicEstimator() *HeuristicEstimator {
	return &HeuristicEstimator{}
}

// Estimate classifies by ordered case-insensitive keyword containment.
// An empty company name yields the Missing category; a non-empty name with
// no keyword match yields Generic.
func (h *HeuristicEstimator) Estimate(_ context.Context, company, _ string) model.CategoryEstimate {
	category := classify(company)
	return model.CategoryEstimate{
		Category: category,
		Source:   model.SourceHeuristic,
		Score:    category.Score(),
	}
}

func classify(company string) model.SizeCategory {
	name := strings.ToLower(strings.TrimSpace(company))
	if name == "" {
		return model.SizeMissing
	}
	for _, tier := range heuristicTiers {
		for _, kw := range tier.keywords {
			if strings.Contains(name, kw) {
				return tier.category
			}
		}
	}
	return model.SizeGeneric
}
