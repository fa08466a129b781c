package store

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS lead_scores (
	id              TEXT PRIMARY KEY,
	lead_id         TEXT NOT NULL DEFAULT '',
	lead_name       TEXT NOT NULL,
	company         TEXT NOT NULL,
	score           REAL NOT NULL,
	grade           TEXT NOT NULL,
	priority        TEXT NOT NULL,
	category_source TEXT NOT NULL DEFAULT '',
	breakdown       TEXT NOT NULL,
	scored_at       DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_lead_scores_lead_id ON lead_scores(lead_id);
CREATE INDEX IF NOT EXISTS idx_lead_scores_score ON lead_scores(score);
CREATE INDEX IF NOT EXISTS idx_lead_scores_scored_at ON lead_scores(scored_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveScore(ctx context.Context, rec *ScoreRecord) error {
	breakdownJSON, err := json.Marshal(rec.Breakdown)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal breakdown")
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO lead_scores (id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.LeadID, rec.LeadName, rec.Company, rec.Score, rec.Grade,
		rec.Priority, rec.CategorySource, string(breakdownJSON), rec.ScoredAt,
	)
	return eris.Wrap(err, "sqlite: insert score")
}

func (s *SQLiteStore) SaveScores(ctx context.Context, recs []ScoreRecord) (int64, error) {
	if len(recs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: begin")
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO lead_scores (id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return 0, eris.Wrap(err, "sqlite: prepare insert")
	}
	defer stmt.Close()

	var n int64
	for _, rec := range recs {
		breakdownJSON, err := json.Marshal(rec.Breakdown)
		if err != nil {
			return 0, eris.Wrap(err, "sqlite: marshal breakdown")
		}
		if _, err := stmt.ExecContext(ctx,
			rec.ID, rec.LeadID, rec.LeadName, rec.Company, rec.Score, rec.Grade,
			rec.Priority, rec.CategorySource, string(breakdownJSON), rec.ScoredAt,
		); err != nil {
			return 0, eris.Wrapf(err, "sqlite: insert score %s", rec.ID)
		}
		n++
	}

	if err := tx.Commit(); err != nil {
		return 0, eris.Wrap(err, "sqlite: commit")
	}
	return n, nil
}

func (s *SQLiteStore) GetScore(ctx context.Context, id string) (*ScoreRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at
		 FROM lead_scores WHERE id = ?`,
		id,
	)
	rec, err := scanScore(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return rec, err
}

func (s *SQLiteStore) ListScores(ctx context.Context, filter ScoreFilter) ([]ScoreRecord, error) {
	query := `SELECT id, lead_id, lead_name, company, score, grade, priority, category_source, breakdown, scored_at
	          FROM lead_scores WHERE 1=1`
	var args []any

	if filter.LeadID != "" {
		query += ` AND lead_id = ?`
		args = append(args, filter.LeadID)
	}
	if filter.Grade != "" {
		query += ` AND grade = ?`
		args = append(args, filter.Grade)
	}
	if filter.MinScore > 0 {
		query += ` AND score >= ?`
		args = append(args, filter.MinScore)
	}
	query += ` ORDER BY scored_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list scores")
	}
	defer rows.Close()

	var recs []ScoreRecord
	for rows.Next() {
		rec, err := scanScore(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, *rec)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: list scores iterate")
}

// helpers

type scannable interface {
	Scan(dest ...any) error
}

func scanScore(row scannable) (*ScoreRecord, error) {
	var rec ScoreRecord
	var breakdownJSON string

	err := row.Scan(&rec.ID, &rec.LeadID, &rec.LeadName, &rec.Company, &rec.Score,
		&rec.Grade, &rec.Priority, &rec.CategorySource, &breakdownJSON, &rec.ScoredAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan score")
	}

	if err := json.Unmarshal([]byte(breakdownJSON), &rec.Breakdown); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal breakdown")
	}
	return &rec, nil
}
