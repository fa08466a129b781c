// Package estimate provides company-size estimation for lead scoring. Two
// strategies implement the same interface: a deterministic keyword heuristic
// and a remote LLM classifier that always falls back to the heuristic.
package estimate

import (
	"context"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/pkg/anthropic"
)

// Estimator maps a company name and optional website to a CategoryEstimate.
// Implementations never return an error and never block past their
// configured timeout; every input produces one of the five fixed categories.
type Estimator interface {
	Estimate(ctx context.Context, company, website string) model.CategoryEstimate
}

// New selects the estimation strategy from config. Without an Anthropic
// credential the remote path is never attempted and the heuristic is used
// directly. The credential is injected here rather than read from the
// environment inside the estimator, so tests can exercise both strategies.
func New(cfg config.AnthropicConfig) Estimator {
	if cfg.Key == "" {
		return NewHeuristicEstimator()
	}
	return NewRemoteEstimator(anthropic.NewClient(cfg.Key), cfg)
}
