//go:build !integration

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadLeads_JSON(t *testing.T) {
	path := writeTempFile(t, "leads.json", `[
		{"name": "Jane", "company": "Acme Inc", "budget": 50000, "status": "qualified"},
		{"name": "Bob", "company": "Widgets LLC", "budget": "$25,000"}
	]`)

	leads, err := readLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 2)
	assert.Equal(t, "Jane", leads[0].Name)
	assert.Equal(t, "Acme Inc", leads[0].Company)
	assert.Equal(t, "$25,000", leads[1].Budget)
}

func TestReadLeads_CSV(t *testing.T) {
	path := writeTempFile(t, "leads.csv",
		"name,company,budget,industry,status,interaction_count\n"+
			"Jane,Acme Inc,50000,technology,qualified,5\n"+
			"Bob,Widgets LLC,\"$25,000\",retail,cold,\n")

	leads, err := readLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 2)

	assert.Equal(t, "Jane", leads[0].Name)
	assert.Equal(t, "50000", leads[0].Budget)
	require.NotNil(t, leads[0].InteractionCount)
	assert.Equal(t, 5, *leads[0].InteractionCount)

	assert.Equal(t, "$25,000", leads[1].Budget)
	assert.Nil(t, leads[1].InteractionCount)
}

func TestReadLeads_CSV_HeaderCaseInsensitive(t *testing.T) {
	path := writeTempFile(t, "leads.csv", "Name,Company\nJane,Acme\n")

	leads, err := readLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane", leads[0].Name)
	assert.Equal(t, "Acme", leads[0].Company)
}

func TestReadLeads_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "leads.xlsx")

	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Leads")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, h := range []string{"name", "company", "budget"} {
		header.AddCell().SetString(h)
	}
	row := sheet.AddRow()
	row.AddCell().SetString("Jane")
	row.AddCell().SetString("Acme Inc")
	row.AddCell().SetString("50000")
	require.NoError(t, f.Save(path))

	leads, err := readLeads(path)
	require.NoError(t, err)
	require.Len(t, leads, 1)
	assert.Equal(t, "Jane", leads[0].Name)
	assert.Equal(t, "Acme Inc", leads[0].Company)
	assert.Equal(t, "50000", leads[0].Budget)
}

func TestReadLeads_UnsupportedExtension(t *testing.T) {
	path := writeTempFile(t, "leads.txt", "whatever")

	_, err := readLeads(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported file type")
}

func TestReadLeads_MissingFile(t *testing.T) {
	_, err := readLeads(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)
}
