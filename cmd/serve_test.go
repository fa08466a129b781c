//go:build !integration

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore/internal/estimate"
	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/internal/store"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	engine := scorer.New(estimate.NewHeuristicEstimator(), scorer.DefaultWeights())

	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	return newRouter(engine, s)
}

func TestRouter_Health(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Score(t *testing.T) {
	router := newTestRouter(t)

	lead := model.Lead{
		Name:     "Jane Doe",
		Company:  "Enterprise Widgets Corporation",
		Budget:   50000,
		Industry: "technology",
		Status:   "qualified",
	}
	body, _ := json.Marshal(lead)

	req := httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Result model.ScoreResult `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Greater(t, resp.Result.Score, 0.0)
	assert.LessOrEqual(t, resp.Result.Score, 100.0)
	assert.NotEmpty(t, resp.Result.Grade)
}

func TestRouter_Score_WithInsightsAndSave(t *testing.T) {
	router := newTestRouter(t)

	body, _ := json.Marshal(model.Lead{Name: "Jane", Company: "Acme Inc", Budget: 60000})
	req := httptest.NewRequest(http.MethodPost, "/api/score?insights=true&save=true", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Insights *scorer.Insights `json:"insights"`
		RecordID string           `json:"record_id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.NotNil(t, resp.Insights)
	assert.NotEmpty(t, resp.Insights.Recommendations)
	assert.NotEmpty(t, resp.RecordID)

	// Saved record is retrievable.
	getReq := httptest.NewRequest(http.MethodGet, "/api/scores/"+resp.RecordID, nil)
	getRR := httptest.NewRecorder()
	router.ServeHTTP(getRR, getReq)
	assert.Equal(t, http.StatusOK, getRR.Code)

	var rec store.ScoreRecord
	require.NoError(t, json.Unmarshal(getRR.Body.Bytes(), &rec))
	assert.Equal(t, "Jane", rec.LeadName)
}

func TestRouter_Score_InvalidBody(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/score", bytes.NewReader([]byte("not json")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid request body")
}

func TestRouter_ScoreBatch_SortedDescending(t *testing.T) {
	router := newTestRouter(t)

	leads := []model.Lead{
		{Name: "Low", Company: ""},
		{Name: "High", Company: "Global Enterprise Corporation", Budget: 150000, Status: "customer"},
	}
	body, _ := json.Marshal(leads)

	req := httptest.NewRequest(http.MethodPost, "/api/score/batch", bytes.NewReader(body))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var results []model.ScoredLead
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Equal(t, "High", results[0].Lead.Name)
	assert.GreaterOrEqual(t, results[0].Result.Score, results[1].Result.Score)
}

func TestRouter_ScoreBatch_Empty(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/score/batch", bytes.NewReader([]byte("[]")))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "no leads provided")
}

func TestRouter_ListScores(t *testing.T) {
	engine := scorer.New(estimate.NewHeuristicEstimator(), scorer.DefaultWeights())
	s, err := store.NewSQLite(filepath.Join(t.TempDir(), "scores.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	require.NoError(t, s.Migrate(context.Background()))

	rec := store.NewRecord(model.ScoredLead{
		Lead:   model.Lead{ID: "lead-1", Name: "Jane", Company: "Acme"},
		Result: model.ScoreResult{Score: 75, Grade: "B", Priority: "High"},
	}, time.Now())
	require.NoError(t, s.SaveScore(context.Background(), &rec))

	router := newRouter(engine, s)

	req := httptest.NewRequest(http.MethodGet, "/api/scores?min_score=50&limit=10", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var recs []store.ScoreRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "Jane", recs[0].LeadName)
}

func TestRouter_ListScores_BadParams(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{
		"/api/scores?min_score=abc",
		"/api/scores?limit=abc",
		"/api/scores?offset=abc",
	} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)
		assert.Equal(t, http.StatusBadRequest, rr.Code, path)
	}
}

func TestRouter_GetScore_NotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/scores/nonexistent", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
