// Package main implements the conjecturer CLI: an automated conjecture
// factory that searches OEIS for unexplained integer sequences, tests each
// one against four closed-form formula families, and publishes exactly
// verified findings.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"conjecturer/internal/config"
	"conjecturer/internal/logging"
)

var (
	// Global flags
	cfgFile   string
	verbose   bool
	workspace string

	// Loaded configuration and logger, available to all commands
	cfg    *config.Config
	logger *zap.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "conjecturer",
	Short: "Automated conjecture factory for integer sequences",
	Long: `conjecturer searches integer sequences for closed-form generating formulas.

Given a sequence of arbitrary-precision integers it attempts to discover and
exactly verify one of four formula families:

  polynomial          a(n) = c_d*n^d + ... + c_0
  linear recurrence   a(n) = c_1*a(n-1) + ... + c_k*a(n-k)
  exponential         a(n) = A*B^n + C
  rational function   a(n) = P(n)/Q(n)

A conjecture is only reported when it reproduces every known term of the
sequence under exact arbitrary-precision arithmetic.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		zcfg := zap.NewProductionConfig()
		if verbose {
			zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zcfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if err := logging.Initialize(workspace, cfg.Logging.Debug || verbose); err != nil {
			logger.Warn("debug logging unavailable", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config/settings.yaml", "path to YAML configuration")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&workspace, "workspace", ".", "workspace directory for logs and data")

	rootCmd.AddCommand(findTargetsCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(testCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(findingsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
