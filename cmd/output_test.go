//go:build !integration

package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/leadscore/internal/model"
)

func sampleResults() []model.ScoredLead {
	return []model.ScoredLead{
		{
			Lead: model.Lead{Name: "Jane Doe", Company: "Acme Corp"},
			Result: model.ScoreResult{
				Score: 82.5, Grade: "B", Priority: "High", ConversionProbability: 96.3,
				Breakdown: &model.Breakdown{CategorySource: model.SourceHeuristic},
			},
		},
		{
			Lead: model.Lead{Name: "Bob", Company: "Widgets LLC"},
			Result: model.ScoreResult{
				Score: 41.0, Grade: "D", Priority: "Medium", ConversionProbability: 28.9,
				Breakdown: &model.Breakdown{CategorySource: model.SourceRemote},
			},
		},
	}
}

func TestWriteScoreTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScoreTable(&buf, sampleResults()))

	out := buf.String()
	assert.Contains(t, out, "Jane Doe")
	assert.Contains(t, out, "Acme Corp")
	assert.Contains(t, out, "82.5")
	assert.Contains(t, out, "heuristic")
}

func TestWriteScoreCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScoreCSV(&buf, sampleResults()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "name,company,score,grade,priority,conversion_probability,category_source", lines[0])
	assert.Contains(t, lines[1], "Jane Doe")
	assert.Contains(t, lines[1], "82.50")
	assert.Contains(t, lines[2], "remote")
}

func TestWriteScoreJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScoreJSON(&buf, sampleResults()))

	var decoded []model.ScoredLead
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 2)
	assert.Equal(t, 82.5, decoded[0].Result.Score)
}

func TestWriteScoreXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeScoreXLSX(&buf, sampleResults()))
	assert.NotZero(t, buf.Len())
}

func TestOutputResults_UnsupportedFormat(t *testing.T) {
	err := outputResults(sampleResults(), "yaml", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 25))
	assert.Equal(t, "a very long company na...", truncate("a very long company name here", 25))
	assert.Len(t, truncate("a very long company name here", 25), 25)
}
