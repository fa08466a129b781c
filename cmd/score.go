package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/internal/store"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a single lead",
	Long: `Score a single lead 0-100 from its profile and engagement signals.

The lead can be given inline via flags or loaded from a JSON file with
--file. Company size is classified remotely when an Anthropic key is
configured and falls back to a keyword heuristic otherwise.

Examples:
  # Score a lead inline
  score --name "Jane Doe" --company "Acme Corp" --budget 50000 --industry technology --status qualified

  # Score from a JSON file with full breakdown and insights
  score --file lead.json --breakdown --insights

  # Score and persist the result
  score --file lead.json --save`,
	RunE: runScore,
}

func init() {
	f := scoreCmd.Flags()
	f.String("file", "", "JSON file containing a single lead")
	f.String("name", "", "lead contact name")
	f.String("company", "", "company name")
	f.String("website", "", "company website")
	f.String("email", "", "contact email")
	f.String("phone", "", "contact phone")
	f.String("budget", "", "stated budget (number or string like \"$50,000\")")
	f.String("industry", "", "industry")
	f.String("status", "", "lifecycle status (customer, hot, qualified, interested, lead, cold)")
	f.String("notes", "", "free-form notes")
	f.Int("interactions", 0, "recorded interaction count")
	f.String("format", "table", "output format: table or json")
	f.Bool("breakdown", false, "show per-factor score breakdown")
	f.Bool("insights", false, "show strengths, weaknesses, and recommendations")
	f.Bool("save", false, "persist the result to the score store")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	lead, err := leadFromFlags(cmd)
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format != "table" && format != "json" {
		return eris.Errorf("score: --format must be table or json (got %q)", format)
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	result := engine.Score(ctx, lead)
	zap.L().Debug("lead scored",
		zap.String("company", lead.Company),
		zap.Float64("score", result.Score),
	)

	showBreakdown, _ := cmd.Flags().GetBool("breakdown")
	showInsights, _ := cmd.Flags().GetBool("insights")

	if format == "json" {
		out := struct {
			Lead     model.Lead        `json:"lead"`
			Result   model.ScoreResult `json:"result"`
			Insights *scorer.Insights  `json:"insights,omitempty"`
		}{Lead: lead, Result: result}
		if showInsights {
			ins := scorer.BuildInsights(lead, result)
			out.Insights = &ins
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			return eris.Wrap(err, "score: encode result")
		}
	} else {
		printSingleScore(lead, result, showBreakdown)
		if showInsights {
			printInsights(scorer.BuildInsights(lead, result))
		}
	}

	if save, _ := cmd.Flags().GetBool("save"); save {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		rec := store.NewRecord(model.ScoredLead{Lead: lead, Result: result}, time.Now())
		if err := s.SaveScore(ctx, &rec); err != nil {
			return eris.Wrap(err, "score: save")
		}
		fmt.Printf("Saved score %s\n", rec.ID)
	}

	return nil
}

// leadFromFlags builds the lead from --file when given, otherwise from
// individual flags.
func leadFromFlags(cmd *cobra.Command) (model.Lead, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return model.Lead{}, eris.Wrapf(err, "score: read %s", path)
		}
		var lead model.Lead
		if err := json.Unmarshal(data, &lead); err != nil {
			return model.Lead{}, eris.Wrapf(err, "score: decode %s", path)
		}
		return lead, nil
	}

	lead := model.Lead{}
	lead.Name, _ = cmd.Flags().GetString("name")
	lead.Company, _ = cmd.Flags().GetString("company")
	lead.Website, _ = cmd.Flags().GetString("website")
	lead.Email, _ = cmd.Flags().GetString("email")
	lead.Phone, _ = cmd.Flags().GetString("phone")
	lead.Industry, _ = cmd.Flags().GetString("industry")
	lead.Notes, _ = cmd.Flags().GetString("notes")

	if status, _ := cmd.Flags().GetString("status"); status != "" {
		lead.Status = model.LeadStatus(status)
	}
	if budget, _ := cmd.Flags().GetString("budget"); budget != "" {
		lead.Budget = budget
	}
	if n, _ := cmd.Flags().GetInt("interactions"); n > 0 {
		lead.InteractionCount = &n
	}

	return lead, nil
}

func printSingleScore(lead model.Lead, result model.ScoreResult, showBreakdown bool) {
	if lead.Name != "" {
		fmt.Printf("Lead:     %s\n", lead.Name)
	}
	fmt.Printf("Company:  %s\n", lead.Company)
	fmt.Printf("Score:    %.1f / 100\n", result.Score)
	fmt.Printf("Grade:    %s\n", result.Grade)
	fmt.Printf("Priority: %s\n", result.Priority)
	fmt.Printf("Conv %%:   %.1f\n", result.ConversionProbability)

	if showBreakdown && result.Breakdown != nil {
		fmt.Println("\nBreakdown:")
		names := make([]string, 0, len(result.Breakdown.Factors))
		for name := range result.Breakdown.Factors {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fs := result.Breakdown.Factors[name]
			fmt.Printf("  %-15s %6.1f  (weight %.2f)\n", name, fs.Score, fs.Weight)
		}
		fmt.Printf("  company size classified via %s\n", result.Breakdown.CategorySource)
	}
}

func printInsights(ins scorer.Insights) {
	if len(ins.Strengths) > 0 {
		fmt.Println("\nStrengths:")
		for _, s := range ins.Strengths {
			fmt.Printf("  + %s\n", s)
		}
	}
	if len(ins.Weaknesses) > 0 {
		fmt.Println("\nWeaknesses:")
		for _, s := range ins.Weaknesses {
			fmt.Printf("  - %s\n", s)
		}
	}
	if len(ins.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, s := range ins.Recommendations {
			fmt.Printf("  * %s\n", s)
		}
	}
}
