package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore/internal/estimate"
	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/internal/store"
)

// newEngine builds a scoring engine from the loaded config.
func newEngine() (*scorer.Engine, error) {
	if err := scorer.ValidateWeights(cfg.Scorer); err != nil {
		return nil, err
	}
	return scorer.New(estimate.New(cfg.Anthropic), cfg.Scorer), nil
}

// openStore opens the configured score-history backend and runs migrations.
func openStore(ctx context.Context) (store.Store, error) {
	s, err := store.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, eris.Wrap(err, "store: migrate")
	}
	return s, nil
}
