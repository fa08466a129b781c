package main

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscore/internal/model"
)

// leadColumns is the expected header order for CSV and XLSX input.
var leadColumns = []string{"id", "name", "company", "website", "email", "phone", "budget", "industry", "status", "notes", "interaction_count"}

// readLeads loads leads from a JSON, CSV, or XLSX file based on extension.
func readLeads(path string) ([]model.Lead, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return readLeadsJSON(path)
	case ".csv":
		return readLeadsCSV(path)
	case ".xlsx":
		return readLeadsXLSX(path)
	default:
		return nil, eris.Errorf("input: unsupported file type %q (want .json, .csv, or .xlsx)", filepath.Ext(path))
	}
}

func readLeadsJSON(path string) ([]model.Lead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	defer f.Close()

	var leads []model.Lead
	if err := json.NewDecoder(f).Decode(&leads); err != nil {
		return nil, eris.Wrapf(err, "input: decode %s", path)
	}
	return leads, nil
}

func readLeadsCSV(path string) ([]model.Lead, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, eris.Wrapf(err, "input: read header %s", path)
	}
	cols := headerIndex(header)

	var leads []model.Lead
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, eris.Wrapf(err, "input: read row %s", path)
		}
		leads = append(leads, rowToLead(row, cols))
	}
	return leads, nil
}

func readLeadsXLSX(path string) ([]model.Lead, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "input: open %s", path)
	}
	if len(f.Sheets) == 0 {
		return nil, eris.Errorf("input: %s has no sheets", path)
	}

	sheet := f.Sheets[0]
	if len(sheet.Rows) == 0 {
		return nil, nil
	}

	cols := headerIndex(rowToStrings(sheet.Rows[0]))
	var leads []model.Lead
	for _, row := range sheet.Rows[1:] {
		leads = append(leads, rowToLead(rowToStrings(row), cols))
	}
	return leads, nil
}

func rowToStrings(row *xlsx.Row) []string {
	cells := make([]string, 0, len(row.Cells))
	for _, c := range row.Cells {
		cells = append(cells, c.String())
	}
	return cells
}

// headerIndex maps known column names to their position, case-insensitively.
func headerIndex(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		for _, known := range leadColumns {
			if h == known {
				cols[known] = i
			}
		}
	}
	return cols
}

func rowToLead(row []string, cols map[string]int) model.Lead {
	get := func(name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	lead := model.Lead{
		ID:       get("id"),
		Name:     get("name"),
		Company:  get("company"),
		Website:  get("website"),
		Email:    get("email"),
		Phone:    get("phone"),
		Industry: get("industry"),
		Status:   model.LeadStatus(get("status")),
		Notes:    get("notes"),
	}
	if b := get("budget"); b != "" {
		lead.Budget = b
	}
	if c := get("interaction_count"); c != "" {
		if n, err := strconv.Atoi(c); err == nil {
			lead.InteractionCount = &n
		}
	}
	return lead
}
