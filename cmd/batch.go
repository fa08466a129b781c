package main

import (
	"context"
	"fmt"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/leadscore/internal/model"
	"github.com/sells-group/leadscore/internal/scorer"
	"github.com/sells-group/leadscore/internal/store"
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Score a batch of leads from a file",
	Long: `Score every lead in a JSON, CSV, or XLSX file and print results
sorted by score, highest first.

Leads are scored concurrently. When a remote company-size classifier is
configured, calls to it are paced by batch.remote_calls_per_sec so a large
file cannot flood the API.

Examples:
  # Score a JSON export and print a table
  batch leads.json

  # Score a CSV, write an XLSX report, persist results
  batch leads.csv --format xlsx --output scores.xlsx --save

  # Only show leads scoring 70 or higher
  batch leads.json --min-score 70`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	f := batchCmd.Flags()
	f.Int("limit", 0, "max number of leads to score (0=all)")
	f.Int("concurrency", 0, "concurrent scoring workers (default from config)")
	f.Float64("min-score", 0, "only output leads at or above this score")
	f.String("format", "table", "output format: table, csv, json, or xlsx")
	f.String("output", "", "output file path (default: stdout)")
	f.Bool("save", false, "persist results to the score store")

	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	leads, err := readLeads(args[0])
	if err != nil {
		return err
	}
	if len(leads) == 0 {
		zap.L().Info("no leads found", zap.String("file", args[0]))
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	if limit > 0 && len(leads) > limit {
		leads = leads[:limit]
	}

	concurrency, _ := cmd.Flags().GetInt("concurrency")
	if concurrency <= 0 {
		concurrency = cfg.Batch.MaxConcurrentLeads
	}

	engine, err := newEngine()
	if err != nil {
		return err
	}

	// Pace remote classification; the heuristic path needs no limiter.
	var limiter *rate.Limiter
	if cfg.Anthropic.Key != "" && cfg.Batch.RemoteCallsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.Batch.RemoteCallsPerSec), 1)
	}

	results, err := processBatch(ctx, engine, leads, concurrency, limiter)
	if err != nil {
		return err
	}

	if minScore, _ := cmd.Flags().GetFloat64("min-score"); minScore > 0 {
		filtered := results[:0]
		for _, r := range results {
			if r.Result.Score >= minScore {
				filtered = append(filtered, r)
			}
		}
		results = filtered
	}

	format, _ := cmd.Flags().GetString("format")
	outputPath, _ := cmd.Flags().GetString("output")
	if err := outputResults(results, format, outputPath); err != nil {
		return err
	}

	if save, _ := cmd.Flags().GetBool("save"); save && len(results) > 0 {
		s, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer s.Close()

		now := time.Now()
		recs := make([]store.ScoreRecord, 0, len(results))
		for _, r := range results {
			recs = append(recs, store.NewRecord(r, now))
		}
		n, err := s.SaveScores(ctx, recs)
		if err != nil {
			return eris.Wrap(err, "batch: save")
		}
		fmt.Printf("Saved %d scores\n", n)
	}

	printSummary(results)
	return nil
}

// processBatch scores leads concurrently and returns results sorted by
// score, highest first. Scoring never fails per lead; the only errors are
// cancellation and limiter waits cut short by shutdown.
func processBatch(ctx context.Context, engine *scorer.Engine, leads []model.Lead, concurrency int, limiter *rate.Limiter) ([]model.ScoredLead, error) {
	zap.L().Info("scoring batch",
		zap.Int("leads", len(leads)),
		zap.Int("concurrency", concurrency),
	)

	results := make([]model.ScoredLead, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, lead := range leads {
		i, lead := i, lead
		g.Go(func() error {
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return eris.Wrap(err, "batch: rate limit wait")
				}
			}
			results[i] = model.ScoredLead{Lead: lead, Result: engine.Score(gctx, lead)}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "batch: scoring")
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Result.Score > results[b].Result.Score
	})

	zap.L().Info("batch complete", zap.Int("scored", len(results)))
	return results, nil
}
