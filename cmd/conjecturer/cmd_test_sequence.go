// Package main - inline sequence testing command.
package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"conjecturer/internal/conjecture"
	"conjecturer/internal/sequence"
)

// testCmd runs the engine on a sequence supplied on the command line.
var testCmd = &cobra.Command{
	Use:   "test [terms...]",
	Short: "Test an inline sequence for a closed-form formula",
	Long: `Runs all four conjecture testers on a sequence given directly on the
command line, comma or space separated.

Example:
  conjecturer test 1 4 9 16 25 36 49 64 81 100`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTestSequence,
}

func runTestSequence(cmd *cobra.Command, args []string) error {
	seq, err := sequence.Parse(strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("invalid sequence: %w", err)
	}

	results := conjecture.RunAll(context.Background(), seq, "inline", cfg.Bounds())
	fmt.Print(renderResults("inline sequence", seq, results))
	return nil
}
