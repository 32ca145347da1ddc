// Package main - target finding command.
// Searches the OEIS for candidate sequences (by default those with no known
// formula) and enqueues them for analysis.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conjecturer/internal/oeis"
	"conjecturer/internal/store"
)

var (
	findQuery string
	findCount int
)

// findTargetsCmd searches OEIS for candidate sequences.
var findTargetsCmd = &cobra.Command{
	Use:   "find-targets",
	Short: "Search OEIS for candidate sequences to analyze",
	Long: `Searches the OEIS JSON API for candidate sequences and enqueues the
resulting IDs in the local store. The default query "keyword:unkn" selects
sequences with no known formula.

The candidate list is also mirrored to a JSON file (store.candidate_file) so
external tooling and the watch command can pick it up.`,
	RunE: runFindTargets,
}

func init() {
	findTargetsCmd.Flags().StringVar(&findQuery, "query", "", "OEIS search query (default from config)")
	findTargetsCmd.Flags().IntVar(&findCount, "count", 0, "maximum number of results (default from config)")
}

func runFindTargets(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	query := findQuery
	if query == "" {
		query = cfg.OEIS.SearchQuery
	}
	count := findCount
	if count <= 0 {
		count = cfg.OEIS.SearchCount
	}

	client := oeis.NewClient(oeis.WithBaseURL(cfg.OEIS.BaseURL))
	ids, err := client.Search(ctx, query, count)
	if err != nil {
		return fmt.Errorf("OEIS search failed: %w", err)
	}
	if len(ids) == 0 {
		fmt.Println("OEIS search returned no results.")
		return nil
	}
	logger.Info("OEIS search complete", zap.String("query", query), zap.Int("results", len(ids)))

	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	added, err := db.EnqueueCandidates(ids)
	if err != nil {
		return fmt.Errorf("failed to enqueue candidates: %w", err)
	}

	if err := writeCandidateFile(cfg.Store.CandidateFile, ids); err != nil {
		logger.Warn("could not write candidate file", zap.Error(err))
	}

	fmt.Printf("Found %d candidates (%d new). Queued for analysis.\n", len(ids), added)
	return nil
}

// writeCandidateFile mirrors the candidate IDs to a JSON file for interop
// with the watch command and external tooling.
func writeCandidateFile(path string, ids []string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
