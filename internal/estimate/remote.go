package estimate

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/pkg/anthropic"
)

const (
	classifySystemPrompt = "You are a business analyst."

	// The model is asked for one of four labels, nothing else.
	classifyMaxTokens = 10
)

// remoteLabels maps response label text to a size category. Matching is
// case-insensitive containment of the full label; partial or unexpected
// label text is treated as a failed classification, not guessed at.
var remoteLabels = []struct {
	label    string
	category model.SizeCategory
}{
	{"large enterprise", model.SizeLargeEnterprise},
	{"medium business", model.SizeMediumBusiness},
	{"small business", model.SizeSmallBusiness},
	{"startup", model.SizeGeneric},
}

// RemoteEstimator classifies company size with a single bounded LLM call.
// Any failure — transport error, timeout, or a response that does not map
// cleanly onto a known label — delegates to the heuristic with the same
// inputs. There is no retry and no state kept across calls.
type RemoteEstimator struct {
	client   anthropic.Client
	model    string
	timeout  time.Duration
	fallback *HeuristicEstimator
}

// NewRemoteEstimator creates a RemoteEstimator around the given client.
func NewRemoteEstimator(client anthropic.Client, cfg config.AnthropicConfig) *RemoteEstimator {
	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteEstimator{
		client:   client,
		model:    cfg.Model,
		timeout:  timeout,
		fallback: NewHeuristicEstimator(),
	}
}

// Estimate runs the remote classification, falling back to the heuristic at
// this single call site on any failure. It never returns an error and never
// blocks past the configured timeout.
func (r *RemoteEstimator) Estimate(ctx context.Context, company, website string) model.CategoryEstimate {
	// Nothing to classify; the heuristic resolves this to Missing.
	if strings.TrimSpace(company) == "" {
		return r.fallback.Estimate(ctx, company, website)
	}

	category, err := r.classify(ctx, company, website)
	if err != nil {
		zap.L().Debug("estimate: remote classification failed, using heuristic",
			zap.String("company", company),
			zap.Error(err),
		)
		return r.fallback.Estimate(ctx, company, website)
	}

	return model.CategoryEstimate{
		Category: category,
		Source:   model.SourceRemote,
		Score:    category.Score(),
	}
}

// classify issues one bounded call and maps the response onto a category.
func (r *RemoteEstimator) classify(ctx context.Context, company, website string) (model.SizeCategory, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	temperature := 0.0
	resp, err := r.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       r.model,
		MaxTokens:   classifyMaxTokens,
		System:      classifySystemPrompt,
		Messages:    []anthropic.Message{{Role: "user", Content: buildPrompt(company, website)}},
		Temperature: &temperature,
	})
	if err != nil {
		return "", eris.Wrap(err, "estimate: remote call")
	}

	resp.Usage.LogUsage(r.model, "company_size")

	answer := resp.FirstText()
	category, ok := parseLabel(answer)
	if !ok {
		return "", eris.Errorf("estimate: unrecognized category label %q", answer)
	}
	return category, nil
}

// buildPrompt constructs the bounded-size classification prompt.
func buildPrompt(company, website string) string {
	var b strings.Builder
	b.WriteString("Estimate the company size category for the following company. ")
	b.WriteString("Respond with one of: 'Large Enterprise', 'Medium Business', 'Small Business', or 'Startup'.\n")
	fmt.Fprintf(&b, "Company Name: %s", company)
	if website != "" {
		fmt.Fprintf(&b, "\nWebsite: %s", website)
	}
	return b.String()
}

// parseLabel maps free-text classification output to a category.
func parseLabel(answer string) (model.SizeCategory, bool) {
	lower := strings.ToLower(strings.TrimSpace(answer))
	if lower == "" {
		return "", false
	}
	for _, rl := range remoteLabels {
		if strings.Contains(lower, rl.label) {
			return rl.category, true
		}
	}
	return "", false
}
