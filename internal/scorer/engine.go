package scorer

import (
	"context"
	"math"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/estimate"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/normalize"
)

// negativeSignals in interaction notes reduce the composite score.
var negativeSignals = []string{
	"not interested", "too expensive", "no budget", "maybe later",
}

// Engine orchestrates a single scoring pass: normalize fields, run the
// category estimator and factor scorers, aggregate with fixed weights.
// Score never fails; every internal fault resolves to a factor's lowest
// bucket instead of aborting the computation. The engine holds no mutable
// state, so concurrent Score calls need no locking.
type Engine struct {
	estimator estimate.Estimator
	weights   config.ScorerConfig
	now       func() time.Time
}

// New creates an Engine. A nil estimator defaults to the heuristic; a zero
// weight vector defaults to DefaultWeights.
func New(estimator estimate.Estimator, weights config.ScorerConfig) *Engine {
	if estimator == nil {
		estimator = estimate.NewHeuristicEstimator()
	}
	if WeightSum(weights) == 0 {
		weights = DefaultWeights()
	}
	return &Engine{
		estimator: estimator,
		weights:   weights,
		now:       time.Now,
	}
}

// WithClock overrides the engine's time source. Used by tests and anywhere
// recency-sensitive scoring must be reproducible.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// Score computes the composite qualification score for one lead. It always
// returns a result in [0,100] with a full factor breakdown.
func (e *Engine) Score(ctx context.Context, lead model.Lead) model.ScoreResult {
	now := e.now()

	categoryEstimate := e.estimateCategory(ctx, lead)

	components := map[string]float64{
		FactorBudget: safeFactor(FactorBudget, budgetFloor, func() float64 {
			return ScoreBudget(normalize.Budget(lead.Budget))
		}),
		FactorIndustry: safeFactor(FactorIndustry, industryFloor, func() float64 {
			return ScoreIndustry(lead.Industry)
		}),
		FactorCompanySize: categoryEstimate.Score,
		FactorEngagement: safeFactor(FactorEngagement, engagementFloor, func() float64 {
			return e.scoreEngagement(lead, now)
		}),
		FactorStatus: safeFactor(FactorStatus, statusFloor, func() float64 {
			return ScoreStatus(lead.Status)
		}),
		FactorDecisionMaker: safeFactor(FactorDecisionMaker, decisionMakerFloor, func() float64 {
			return ScoreDecisionMaker(lead.Name, lead.Notes)
		}),
	}

	var total float64
	for factor, score := range components {
		total += score * weightFor(e.weights, factor)
	}

	total = e.applyModifiers(total, lead, now)

	// Sub-scores are already bounded, so the clamp is an invariant check
	// rather than expected behavior.
	total = math.Max(0, math.Min(100, total))
	total = math.Round(total*100) / 100

	breakdown := &model.Breakdown{
		Factors:        make(map[string]model.FactorScore, len(components)),
		CategorySource: categoryEstimate.Source,
	}
	for factor, score := range components {
		breakdown.Factors[factor] = model.FactorScore{
			Score:  score,
			Weight: weightFor(e.weights, factor),
		}
	}

	result := model.ScoreResult{
		Score:                 total,
		Grade:                 Grade(total),
		Priority:              Priority(total),
		ConversionProbability: ConversionProbability(total),
		Breakdown:             breakdown,
	}

	zap.L().Debug("scorer: lead scored",
		zap.String("company", lead.Company),
		zap.Float64("score", result.Score),
		zap.String("grade", result.Grade),
		zap.String("category_source", string(categoryEstimate.Source)),
	)

	return result
}

// ScoreBatch scores a slice of leads sequentially and returns them sorted by
// score descending. Callers needing concurrency fan out over Score directly.
func (e *Engine) ScoreBatch(ctx context.Context, leads []model.Lead) []model.ScoredLead {
	scored := make([]model.ScoredLead, 0, len(leads))
	for _, lead := range leads {
		scored = append(scored, model.ScoredLead{
			Lead:   lead,
			Result: e.Score(ctx, lead),
		})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Result.Score > scored[j].Result.Score
	})
	return scored
}

// estimateCategory runs the category estimator behind the same fault
// isolation as the factor scorers: a panicking estimator contributes the
// Missing category rather than aborting the scoring call.
func (e *Engine) estimateCategory(ctx context.Context, lead model.Lead) (est model.CategoryEstimate) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("scorer: category estimator panicked",
				zap.String("company", lead.Company),
				zap.Any("panic", r),
			)
			est = model.CategoryEstimate{
				Category: model.SizeMissing,
				Source:   model.SourceHeuristic,
				Score:    model.SizeMissing.Score(),
			}
		}
	}()
	return e.estimator.Estimate(ctx, lead.Company, lead.Website)
}

// scoreEngagement prefers the full interaction history when present and
// falls back to the bare count.
func (e *Engine) scoreEngagement(lead model.Lead, now time.Time) float64 {
	if len(lead.Interactions) > 0 {
		return ScoreInteractions(lead.Interactions, now)
	}
	return ScoreEngagementCount(normalize.Count(lead.InteractionCount))
}

// applyModifiers adjusts the weighted total with behavioral signals.
func (e *Engine) applyModifiers(score float64, lead model.Lead, now time.Time) float64 {
	// Negative phrases anywhere in the interaction notes.
	for _, in := range lead.Interactions {
		notes := strings.ToLower(in.Notes)
		for _, signal := range negativeSignals {
			if strings.Contains(notes, signal) {
				score *= 0.7
				return e.applyPositiveModifiers(score, lead, now)
			}
		}
	}
	return e.applyPositiveModifiers(score, lead, now)
}

func (e *Engine) applyPositiveModifiers(score float64, lead model.Lead, now time.Time) float64 {
	if lead.Website != "" {
		score += 5
	}
	if lead.Phone != "" && lead.Email != "" {
		score += 5
	}
	if last, ok := lastInteraction(lead.Interactions); ok && within(last.CreatedAt, now, 3*24*time.Hour) {
		score += 10
	}
	return score
}

func lastInteraction(interactions []model.Interaction) (model.Interaction, bool) {
	if len(interactions) == 0 {
		return model.Interaction{}, false
	}
	last := interactions[0]
	for _, in := range interactions[1:] {
		if in.CreatedAt.After(last.CreatedAt) {
			last = in
		}
	}
	return last, true
}

// safeFactor isolates a single factor computation: a panic contributes the
// factor's lowest bucket instead of propagating.
func safeFactor(name string, lowest float64, fn func() float64) (score float64) {
	defer func() {
		if r := recover(); r != nil {
			zap.L().Error("scorer: factor faulted, using lowest bucket",
				zap.String("factor", name),
				zap.Any("panic", r),
			)
			score = lowest
		}
	}()
	return fn()
}
