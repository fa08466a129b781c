package db

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyFrom_EmptyRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	n, err := CopyFrom(context.Background(), mock, "lead_scores", []string{"id"}, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_CopiesRows(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	rows := [][]any{
		{"id-1", 75.5},
		{"id-2", 42.0},
	}
	mock.ExpectCopyFrom(pgx.Identifier{"lead_scores"}, []string{"id", "score"}).
		WillReturnResult(2)

	n, err := CopyFrom(context.Background(), mock, "lead_scores", []string{"id", "score"}, rows)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCopyFrom_WrapsError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectCopyFrom(pgx.Identifier{"lead_scores"}, []string{"id"}).
		WillReturnError(assert.AnError)

	_, err = CopyFrom(context.Background(), mock, "lead_scores", []string{"id"}, [][]any{{"id-1"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "COPY INTO lead_scores")
}
