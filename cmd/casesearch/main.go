package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"casesearch/internal/bootstrap"
	"casesearch/internal/config"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "casesearch",
	Short: "Run the case-law retrieval core from a terminal",
	Long: `casesearch drives the same intent-profiling, reasoner, scheduling,
classification, and proposition-gating pipeline the HTTP server exposes,
without the HTTP layer — useful for local debugging and offline batch
scoring of a query.`,
}

func newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	return cfg.Build()
}

func loadRuntime(zlog *zap.Logger) (*bootstrap.Runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	return bootstrap.Build(cfg, zlog)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	queryCmd.Flags().IntVar(&queryMaxResults, "max-results", 20, "cap on cases returned across all tiers (5-40)")
	queryCmd.Flags().BoolVar(&queryJSON, "json", false, "print the full SearchResponse as JSON instead of a summary")
	healthCmd.Flags().DurationVar(&healthTimeout, "timeout", 3*time.Second, "reasoner backend probe timeout")

	rootCmd.AddCommand(queryCmd, healthCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
