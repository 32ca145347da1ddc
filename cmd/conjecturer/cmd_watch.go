// Package main - candidate-file watch command.
// Watches the JSON candidate file produced by find-targets (or external
// tooling) and re-runs analysis whenever it changes.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"conjecturer/internal/logging"
	"conjecturer/internal/oeis"
	"conjecturer/internal/store"
)

// watchCmd watches the candidate file and analyzes on change.
var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the candidate file and analyze new sequences as they appear",
	Long: `Watches the candidate JSON file (store.candidate_file) and runs the
conjecture engine over newly listed sequences whenever the file changes.
Runs until interrupted.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	path := cfg.Store.CandidateFile
	if path == "" {
		return fmt.Errorf("store.candidate_file is not configured")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create candidate directory: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors and atomic writes replace
	// the inode and a file watch would silently go stale.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	fmt.Printf("Watching %s for candidates (Ctrl-C to stop)...\n", path)
	logging.Watch("watching candidate file %s", path)

	// Analyze whatever is already queued before waiting for changes.
	if err := analyzeCandidateFile(path); err != nil {
		logger.Warn("initial analysis pass failed", zap.Error(err))
	}

	// Debounce rapid successive writes.
	var pending <-chan time.Time
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pending = time.After(500 * time.Millisecond)
			}
		case <-pending:
			pending = nil
			logging.Watch("candidate file changed; analyzing")
			if err := analyzeCandidateFile(path); err != nil {
				logger.Warn("analysis pass failed", zap.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case <-sig:
			fmt.Println("\nStopping watch.")
			return nil
		}
	}
}

// analyzeCandidateFile reads the candidate JSON file, enqueues its IDs and
// drains the pending queue through the engine.
func analyzeCandidateFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // nothing queued yet
		}
		return err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return fmt.Errorf("could not decode candidate file: %w", err)
	}

	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	if _, err := db.EnqueueCandidates(ids); err != nil {
		return err
	}
	pending, err := db.PendingCandidates(analyzeLimit)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		return nil
	}

	client := oeis.NewClient(oeis.WithBaseURL(cfg.OEIS.BaseURL))
	bounds := cfg.Bounds()
	for _, id := range pending {
		if err := analyzeOne(db, client, nil, id, bounds); err != nil {
			logger.Warn("analysis failed", zap.String("sequence", id), zap.Error(err))
		}
	}
	return nil
}
