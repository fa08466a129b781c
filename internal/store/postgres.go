package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/leadscore/internal/db"
)

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool    db.Pool
	closeFn func()
}

// PoolConfig holds optional connection pool tuning parameters.
type PoolConfig struct {
	MaxConns int32 `yaml:"max_conns" mapstructure:"max_conns"`
	MinConns int32 `yaml:"min_conns" mapstructure:"min_conns"`
}

// preparedStatements lists queries to prepare on each new connection for
// faster execution of the hot-path store operations.
var preparedStatements = map[string]string{
	"insert_score": `INSERT INTO lead_scores (id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
	"get_score":    `SELECT id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at FROM lead_scores WHERE id = $1`,
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string, poolCfg *PoolConfig) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}

	// Apply pool sizing from config with sensible defaults.
	maxConns := int32(10)
	minConns := int32(2)
	if poolCfg != nil {
		if poolCfg.MaxConns > 0 {
			maxConns = poolCfg.MaxConns
		}
		if poolCfg.MinConns > 0 {
			minConns = poolCfg.MinConns
		}
	}
	pgxCfg.MaxConns = maxConns
	pgxCfg.MinConns = minConns
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	// Prepare frequently-used statements on each new connection.
	pgxCfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		for name, sql := range preparedStatements {
			if _, err := conn.Prepare(ctx, name, sql); err != nil {
				return eris.Wrapf(err, "postgres: prepare %s", name)
			}
		}
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, eris.Wrap(err, "postgres: ping")
	}
	return &PostgresStore{pool: pool, closeFn: pool.Close}, nil
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS lead_scores (
	id              TEXT PRIMARY KEY DEFAULT gen_random_uuid()::text,
	lead_id         TEXT NOT NULL DEFAULT '',
	lead_name       TEXT NOT NULL,
	company         TEXT NOT NULL,
	score           DOUBLE PRECISION NOT NULL,
	grade           TEXT NOT NULL,
	priority        TEXT NOT NULL,
	category_source TEXT NOT NULL DEFAULT '',
	breakdown       JSONB NOT NULL,
	scored_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_lead_scores_lead_id ON lead_scores(lead_id);
CREATE INDEX IF NOT EXISTS idx_lead_scores_score ON lead_scores(score);
CREATE INDEX IF NOT EXISTS idx_lead_scores_scored_at ON lead_scores(scored_at DESC);
`

func (s *PostgresStore) Ping(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, "SELECT 1")
	return eris.Wrap(err, "postgres: ping")
}

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	if s.closeFn != nil {
		s.closeFn()
	}
	return nil
}

func (s *PostgresStore) SaveScore(ctx context.Context, rec *ScoreRecord) error {
	breakdownJSON, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return eris.Wrap(err, "postgres: marshal breakdown")
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO lead_scores (id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rec.ID, rec.LeadID, rec.LeadName, rec.Company, rec.Score, rec.Grade,
		rec.Priority, rec.CategorySource, breakdownJSON, rec.ScoredAt,
	)
	return eris.Wrap(err, "postgres: insert score")
}

// SaveScores bulk-inserts a batch of records using the COPY protocol.
func (s *PostgresStore) SaveScores(ctx context.Context, recs []ScoreRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	columns := []string{"id", "lead_id", "lead_name", "company", "score", "grade", "priority", "category_source", "breakdown", "scored_at"}
	rows := make([][]any, 0, len(recs))
	for _, rec := range recs {
		breakdownJSON, err := json.Marshal(rec.Breakdown)
		if err != nil {
			return 0, eris.Wrap(err, "postgres: marshal breakdown")
		}
		rows = append(rows, []any{
			rec.ID, rec.LeadID, rec.LeadName, rec.Company, rec.Score, rec.Grade,
			rec.Priority, rec.CategorySource, breakdownJSON, rec.ScoredAt,
		})
	}

	return db.CopyFrom(ctx, s.pool, "lead_scores", columns, rows)
}

func (s *PostgresStore) GetScore(ctx context.Context, id string) (*ScoreRecord, error) {
	var rec ScoreRecord
	var breakdownJSON []byte

	err := s.pool.QueryRow(ctx,
		`SELECT id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at
		 FROM lead_scores WHERE id = $1`,
		id,
	).Scan(&rec.ID, &rec.LeadID, &rec.LeadName, &rec.Company, &rec.Score,
		&rec.Grade, &rec.Priority, &rec.CategorySource, &breakdownJSON, &rec.ScoredAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, eris.Wrapf(err, "postgres: get score %s", id)
	}

	if err := json.Unmarshal(breakdownJSON, &rec.Breakdown); err != nil {
		return nil, eris.Wrap(err, "postgres: unmarshal breakdown")
	}
	return &rec, nil
}

func (s *PostgresStore) ListScores(ctx context.Context, filter ScoreFilter) ([]ScoreRecord, error) {
	query := `SELECT id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at
	          FROM lead_scores WHERE true`
	args := []any{}
	argIdx := 1

	if filter.LeadID != "" {
		query += fmt.Sprintf(` AND lead_id = $%d`, argIdx)
		args = append(args, filter.LeadID)
		argIdx++
	}
	if filter.Grade != "" {
		query += fmt.Sprintf(` AND grade = $%d`, argIdx)
		args = append(args, filter.Grade)
		argIdx++
	}
	if filter.MinScore > 0 {
		query += fmt.Sprintf(` AND score >= $%d`, argIdx)
		args = append(args, filter.MinScore)
		argIdx++
	}
	query += ` ORDER BY scored_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += fmt.Sprintf(` LIMIT $%d`, argIdx)
	args = append(args, limit)
	argIdx++

	if filter.Offset > 0 {
		query += fmt.Sprintf(` OFFSET $%d`, argIdx)
		args = append(args, filter.Offset)
		argIdx++
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list scores")
	}
	defer rows.Close()

	var recs []ScoreRecord
	for rows.Next() {
		var rec ScoreRecord
		var breakdownJSON []byte

		if err := rows.Scan(&rec.ID, &rec.LeadID, &rec.LeadName, &rec.Company, &rec.Score,
			&rec.Grade, &rec.Priority, &rec.CategorySource, &breakdownJSON, &rec.ScoredAt); err != nil {
			return nil, eris.Wrap(err, "postgres: scan score")
		}
		if err := json.Unmarshal(breakdownJSON, &rec.Breakdown); err != nil {
			return nil, eris.Wrap(err, "postgres: unmarshal breakdown")
		}
		recs = append(recs, rec)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: list scores iterate")
}
