package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"casesearch/pkg/models"
	"casesearch/pkg/reasoner"
)

var healthTimeout time.Duration

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Probe the configured reasoner backend, the same check /api/health/bedrock runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		zlog, err := newLogger()
		if err != nil {
			return err
		}
		defer zlog.Sync()

		rt, err := loadRuntime(zlog)
		if err != nil {
			return err
		}
		defer rt.Cache.Close()

		ctx, cancel := context.WithTimeout(cmd.Context(), healthTimeout)
		defer cancel()

		start := time.Now()
		_, genErr := rt.ReasonerBackend.Generate(ctx, reasoner.Input{
			Pass:         models.ReasonerPassOne,
			CleanedQuery: "health probe reachability check placeholder",
		})
		latency := time.Since(start)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "mode: %s\nlatency: %s\n", rt.ReasonerBackend.Name(), latency)
		if genErr != nil {
			fmt.Fprintf(out, "status: degraded\nerror: %v\n", genErr)
			return genErr
		}
		fmt.Fprintln(out, "status: ok")
		return nil
	},
}
