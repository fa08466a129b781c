package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/leadscore/internal/model"
)

// outputResults writes scored leads in the requested format, to a file when
// outputPath is set and stdout otherwise.
func outputResults(results []model.ScoredLead, format, outputPath string) error {
	var w io.Writer = os.Stdout
	if outputPath != "" {
		f, err := os.Create(outputPath)
		if err != nil {
			return eris.Wrapf(err, "output: create %s", outputPath)
		}
		defer f.Close() //nolint:errcheck
		w = f
	}

	switch format {
	case "table":
		return writeScoreTable(w, results)
	case "csv":
		return writeScoreCSV(w, results)
	case "json":
		return writeScoreJSON(w, results)
	case "xlsx":
		return writeScoreXLSX(w, results)
	default:
		return eris.Errorf("output: unsupported format %q", format)
	}
}

func writeScoreTable(w io.Writer, results []model.ScoredLead) error {
	header := fmt.Sprintf("%-25s %-30s %6s %5s %-8s %7s %-9s\n",
		"Name", "Company", "Score", "Grade", "Priority", "Conv %", "Size Src")
	if _, err := fmt.Fprint(w, header); err != nil {
		return eris.Wrap(err, "output: write table header")
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 96)); err != nil {
		return eris.Wrap(err, "output: write table separator")
	}

	for _, r := range results {
		line := fmt.Sprintf("%-25s %-30s %6.1f %5s %-8s %7.1f %-9s\n",
			truncate(r.Lead.Name, 25), truncate(r.Lead.Company, 30),
			r.Result.Score, r.Result.Grade, r.Result.Priority,
			r.Result.ConversionProbability, categorySource(r.Result))
		if _, err := fmt.Fprint(w, line); err != nil {
			return eris.Wrap(err, "output: write table row")
		}
	}
	return nil
}

func writeScoreCSV(w io.Writer, results []model.ScoredLead) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(scoreHeader()); err != nil {
		return eris.Wrap(err, "output: write CSV header")
	}
	for _, r := range results {
		if err := cw.Write(scoreRow(r)); err != nil {
			return eris.Wrap(err, "output: write CSV row")
		}
	}
	return nil
}

func writeScoreJSON(w io.Writer, results []model.ScoredLead) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(results), "output: encode JSON")
}

func writeScoreXLSX(w io.Writer, results []model.ScoredLead) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Scores")
	if err != nil {
		return eris.Wrap(err, "output: add sheet")
	}

	headerRow := sheet.AddRow()
	for _, h := range scoreHeader() {
		headerRow.AddCell().SetString(h)
	}
	for _, r := range results {
		row := sheet.AddRow()
		row.AddCell().SetString(r.Lead.Name)
		row.AddCell().SetString(r.Lead.Company)
		row.AddCell().SetFloat(r.Result.Score)
		row.AddCell().SetString(r.Result.Grade)
		row.AddCell().SetString(r.Result.Priority)
		row.AddCell().SetFloat(r.Result.ConversionProbability)
		row.AddCell().SetString(categorySource(r.Result))
	}

	return eris.Wrap(f.Write(w), "output: write xlsx")
}

func scoreHeader() []string {
	return []string{"name", "company", "score", "grade", "priority", "conversion_probability", "category_source"}
}

func scoreRow(r model.ScoredLead) []string {
	return []string{
		r.Lead.Name,
		r.Lead.Company,
		fmt.Sprintf("%.2f", r.Result.Score),
		r.Result.Grade,
		r.Result.Priority,
		fmt.Sprintf("%.1f", r.Result.ConversionProbability),
		categorySource(r.Result),
	}
}

func categorySource(res model.ScoreResult) string {
	if res.Breakdown == nil {
		return ""
	}
	return string(res.Breakdown.CategorySource)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// printSummary writes aggregate stats for a batch run.
func printSummary(results []model.ScoredLead) {
	if len(results) == 0 {
		fmt.Println("No results.")
		return
	}
	var sum float64
	minScore, maxScore := 101.0, 0.0
	grades := map[string]int{}
	for _, r := range results {
		sum += r.Result.Score
		if r.Result.Score > maxScore {
			maxScore = r.Result.Score
		}
		if r.Result.Score < minScore {
			minScore = r.Result.Score
		}
		grades[r.Result.Grade]++
	}
	fmt.Printf("\n--- Summary ---\n")
	fmt.Printf("Leads scored:  %d\n", len(results))
	fmt.Printf("Score range:   %.1f - %.1f\n", minScore, maxScore)
	fmt.Printf("Average score: %.1f\n", sum/float64(len(results)))
	fmt.Printf("Grades:        ")
	for _, g := range []string{"A", "B", "C", "D", "F"} {
		if grades[g] > 0 {
			fmt.Printf("%s=%d ", g, grades[g])
		}
	}
	fmt.Println()
}
