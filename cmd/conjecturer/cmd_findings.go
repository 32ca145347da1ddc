// Package main - findings listing command.
package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"conjecturer/internal/store"
)

var findingsLimit int

// findingsCmd lists recorded findings.
var findingsCmd = &cobra.Command{
	Use:   "findings",
	Short: "List verified conjectures recorded so far",
	RunE:  runFindings,
}

func init() {
	findingsCmd.Flags().IntVar(&findingsLimit, "limit", 20, "maximum findings to list")
}

func runFindings(cmd *cobra.Command, args []string) error {
	db, err := store.Open(cfg.Store.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer db.Close()

	findings, err := db.Findings(findingsLimit)
	if err != nil {
		return fmt.Errorf("failed to load findings: %w", err)
	}
	if len(findings) == 0 {
		fmt.Println("No findings recorded yet.")
		return nil
	}

	fmt.Print(renderFindings(findings))
	return nil
}
