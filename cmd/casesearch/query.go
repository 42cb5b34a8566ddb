package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"casesearch/pkg/models"
)

var (
	queryMaxResults int
	queryJSON       bool
)

var queryCmd = &cobra.Command{
	Use:   "query <search terms>",
	Short: "Run a query through the full retrieval pipeline and print the results",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rawQuery := strings.Join(args, " ")

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

		resp, err := rt.Engine.Run(cmd.Context(), rawQuery)
		if err != nil {
			return fmt.Errorf("run pipeline: %w", err)
		}
		truncateForDisplay(&resp, queryMaxResults)

		if queryJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		}

		printSummary(cmd, resp)
		return nil
	},
}

// truncateForDisplay mirrors internal/httpapi's maxResults cap so the CLI
// and HTTP surfaces present the same slice of a SearchResponse.
func truncateForDisplay(resp *models.SearchResponse, maxResults int) {
	if maxResults <= 0 {
		maxResults = 20
	}
	if maxResults < 5 {
		maxResults = 5
	}
	if maxResults > 40 {
		maxResults = 40
	}
	remaining := maxResults
	resp.CasesExactStrict, remaining = capTier(resp.CasesExactStrict, remaining)
	resp.CasesExactProvisional, remaining = capTier(resp.CasesExactProvisional, remaining)
	resp.CasesExploratory, _ = capTier(resp.CasesExploratory, remaining)
}

func capTier(tier []models.ScoredCase, remaining int) ([]models.ScoredCase, int) {
	if remaining <= 0 {
		return nil, 0
	}
	if len(tier) <= remaining {
		return tier, remaining - len(tier)
	}
	return tier[:remaining], 0
}

func printSummary(cmd *cobra.Command, resp models.SearchResponse) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "status: %s  guarantee_met: %v  elapsed_ms: %d\n",
		resp.Status, resp.Guarantee.Met, resp.PipelineTrace.ElapsedMs)
	fmt.Fprintf(out, "tiers: strict=%d provisional=%d exploratory=%d\n\n",
		resp.TierCounts.Strict, resp.TierCounts.Provisional, resp.TierCounts.Exploratory)

	printTier(out, "EXACT STRICT", resp.CasesExactStrict)
	printTier(out, "EXACT PROVISIONAL", resp.CasesExactProvisional)
	printTier(out, "EXPLORATORY", resp.CasesExploratory)

	for _, note := range resp.Notes {
		fmt.Fprintf(out, "note: %s\n", note)
	}
}

func printTier(out interface{ Write([]byte) (int, error) }, label string, cases []models.ScoredCase) {
	if len(cases) == 0 {
		return
	}
	fmt.Fprintf(out, "-- %s --\n", label)
	for i, sc := range cases {
		fmt.Fprintf(out, "%2d. [%.3f] %s\n    %s\n", i+1, sc.Score, sc.Candidate.Title, sc.Candidate.URL)
		if sc.SelectionSummary != "" {
			fmt.Fprintf(out, "    %s\n", sc.SelectionSummary)
		}
	}
	fmt.Fprintln(out)
}
