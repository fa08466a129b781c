// Package store persists scoring results so runs can be reviewed and
// compared over time. Two backends are provided: SQLite for single-user
// CLI use and Postgres for the shared server deployment.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore/internal/config"
	"github.com/sells-group/leadscore/internal/model"
)

// ScoreRecord is one persisted scoring outcome.
type ScoreRecord struct {
	ID             string          `json:"id"`
	LeadID         string          `json:"lead_id,omitempty"`
	LeadName       string          `json:"lead_name"`
	Company        string          `json:"company"`
	Score          float64         `json:"score"`
	Grade          string          `json:"grade"`
	Priority       string          `json:"priority"`
	CategorySource string          `json:"category_source"`
	Breakdown      model.Breakdown `json:"breakdown"`
	ScoredAt       time.Time       `json:"scored_at"`
}

// ScoreFilter specifies criteria for listing score records.
type ScoreFilter struct {
	LeadID   string  `json:"lead_id,omitempty"`
	Grade    string  `json:"grade,omitempty"`
	MinScore float64 `json:"min_score,omitempty"`
	Limit    int     `json:"limit,omitempty"`
	Offset   int     `json:"offset,omitempty"`
}

// Store defines the persistence interface for score history.
type Store interface {
	SaveScore(ctx context.Context, rec *ScoreRecord) error
	SaveScores(ctx context.Context, recs []ScoreRecord) (int64, error)
	GetScore(ctx context.Context, id string) (*ScoreRecord, error)
	ListScores(ctx context.Context, filter ScoreFilter) ([]ScoreRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open constructs the store selected by configuration.
func Open(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Driver {
	case "postgres":
		return NewPostgres(ctx, cfg.DatabaseURL, &PoolConfig{
			MaxConns: cfg.MaxConns,
			MinConns: cfg.MinConns,
		})
	case "sqlite", "":
		return NewSQLite(cfg.DatabaseURL)
	default:
		return nil, eris.Errorf("store: unknown driver %q", cfg.Driver)
	}
}

// NewRecord builds a ScoreRecord from a scored lead, assigning an ID and
// stamping the scoring time.
func NewRecord(sl model.ScoredLead, scoredAt time.Time) ScoreRecord {
	rec := ScoreRecord{
		ID:       uuid.New().String(),
		LeadID:   sl.Lead.ID,
		LeadName: sl.Lead.Name,
		Company:  sl.Lead.Company,
		Score:    sl.Result.Score,
		Grade:    sl.Result.Grade,
		Priority: sl.Result.Priority,
		ScoredAt: scoredAt.UTC(),
	}
	if sl.Result.Breakdown != nil {
		rec.Breakdown = *sl.Result.Breakdown
		rec.CategorySource = string(sl.Result.Breakdown.CategorySource)
	}
	return rec
}
