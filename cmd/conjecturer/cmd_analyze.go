// Package main - analysis command.
// Fetches candidate sequences, runs the four conjecture testers against each
// one, records verified findings, and optionally publishes them.
package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conjecturer/internal/conjecture"
	"conjecturer/internal/formula"
	"conjecturer/internal/oeis"
	"conjecturer/internal/report"
	"conjecturer/internal/sequence"
	"conjecturer/internal/store"
)

var (
	analyzeReport bool
	analyzeLimit  int
)

// analyzeCmd runs the conjecture engine over candidate sequences.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [A-ids...]",
	Short: "Run the conjecture engine over candidate sequences",
	Long: `Analyzes OEIS sequences for closed-form generating formulas.

With explicit IDs (e.g. A000045) only those sequences are analyzed; without
arguments the pending candidate queue from find-targets is drained. B-files
are cached locally, so repeat runs skip the network.

Each sequence runs through all four testers concurrently; a verified result
from any family is recorded as a finding. With --report, each finding is also
published as a GitHub pull request.`,
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeReport, "report", false, "open a GitHub PR for each verified finding")
	analyzeCmd.Flags().IntVar(&analyzeLimit, "limit", 25, "maximum queued candidates to analyze")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	ids := args
	if len(ids) == 0 {
		ids, err = db.PendingCandidates(analyzeLimit)
		if err != nil {
			return fmt.Errorf("failed to load candidate queue: %w", err)
		}
		if len(ids) == 0 {
			fmt.Println("No pending candidates. Run 'conjecturer find-targets' first.")
			return nil
		}
	}

	client := oeis.NewClient(oeis.WithBaseURL(cfg.OEIS.BaseURL))

	var publisher *report.Client
	if analyzeReport {
		publisher, err = report.NewClient(cfg.GitHub.Token, cfg.GitHub.Repository)
		if err != nil {
			return fmt.Errorf("reporting requested but unavailable: %w", err)
		}
	}

	bounds := cfg.Bounds()
	for _, id := range ids {
		if err := analyzeOne(db, client, publisher, id, bounds); err != nil {
			// One sequence failing must never stop the next.
			logger.Warn("analysis failed", zap.String("sequence", id), zap.Error(err))
			continue
		}
	}
	return nil
}

// analyzeOne fetches (or loads from cache) a single sequence, runs the
// engine, prints the outcome and records/publishes any finding.
func analyzeOne(db *store.Store, client *oeis.Client, publisher *report.Client, id string, bounds conjecture.Bounds) error {
	seq, err := loadSequence(db, client, id)
	if err != nil {
		// "No data" is a fetch problem, not a formula failure.
		return fmt.Errorf("could not fetch data: %w", err)
	}

	ctx := context.Background()
	results := conjecture.RunAll(ctx, seq, id, bounds)
	fmt.Print(renderResults(id, seq, results))

	if err := db.MarkAnalyzed(id); err != nil {
		logger.Warn("could not mark candidate analyzed", zap.String("sequence", id), zap.Error(err))
	}

	for _, res := range results {
		if res.Status != conjecture.Verified {
			continue
		}
		finding := store.Finding{
			SequenceID:  id,
			Kind:        string(res.FormulaKind()),
			Degree:      res.Degree,
			Formula:     formula.Render(res.Formula),
			LaTeX:       formula.LaTeX(res.Formula),
			Description: res.Description,
			TermCount:   seq.Len(),
		}
		if _, err := db.RecordFinding(finding); err != nil {
			logger.Warn("could not record finding", zap.String("sequence", id), zap.Error(err))
		}
		if publisher != nil {
			publishFinding(publisher, id, res, seq)
		}
	}
	return nil
}

// loadSequence returns a cached sequence or fetches and caches its b-file.
func loadSequence(db *store.Store, client *oeis.Client, id string) (sequence.Sequence, error) {
	if seq, ok, err := db.CachedSequence(id); err == nil && ok {
		logger.Debug("sequence loaded from cache", zap.String("sequence", id), zap.Int("terms", seq.Len()))
		return seq, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	seq, err := client.FetchBFile(ctx, id)
	if err != nil {
		return sequence.Sequence{}, err
	}
	if err := db.CacheSequence(id, seq); err != nil {
		logger.Warn("could not cache sequence", zap.String("sequence", id), zap.Error(err))
	}
	return seq, nil
}

// publishFinding opens a PR for a verified result. Publication failure is
// logged and swallowed; the engine does not depend on the sink.
func publishFinding(publisher *report.Client, id string, res conjecture.Result, seq sequence.Sequence) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	url, err := publisher.CreatePullRequest(ctx, report.Publication{
		SequenceID:  id,
		Kind:        string(res.FormulaKind()),
		FormulaText: formula.Render(res.Formula),
		LaTeX:       formula.LaTeX(res.Formula),
		Description: res.Description,
		TermCount:   seq.Len(),
	})
	if err != nil {
		logger.Error("failed to publish finding", zap.String("sequence", id), zap.Error(err))
		return
	}
	fmt.Printf("  ↳ published: %s\n", url)
}
