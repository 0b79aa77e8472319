package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/vitals/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List stored assessment results",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		asJSON, _ := cmd.Flags().GetBool("json")

		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve database path: %w", err)
		}
		s, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open database: %w", err)
		}
		defer s.Close()

		ctx := cmd.Context()
		results, err := s.EventRepo().QueryResults(ctx, store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query results: %w", err)
		}

		if asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if results == nil {
				results = []store.ResultEventRecord{}
			}
			return enc.Encode(results)
		}

		if len(results) == 0 {
			fmt.Println("No results yet.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-7s  %-5s  %-18s  %s\n",
			"ID", "Timestamp", "Score", "Pct", "Tier", "Catalog")
		fmt.Println(strings.Repeat("─", 72))
		for _, r := range results {
			fmt.Printf("%-5d  %-19s  %-7s  %4.0f%%  %-18s  %s\n",
				r.ID,
				r.Timestamp.Local().Format("2006-01-02 15:04:05"),
				fmt.Sprintf("%d/%d", r.Total, r.Max),
				r.Percentage,
				r.Tier,
				r.CatalogVersion,
			)
		}

		stats, err := s.EventRepo().ResultStats(ctx)
		if err != nil {
			return fmt.Errorf("query stats: %w", err)
		}
		fmt.Println(strings.Repeat("─", 72))
		fmt.Printf("%d total, average %.0f%%, best %.0f%%\n",
			stats.Count, stats.AvgPercentage, stats.BestPercentage)
		return nil
	},
}

func init() {
	historyCmd.Flags().IntP("limit", "n", 20, "Number of results to show")
	historyCmd.Flags().Bool("json", false, "Print results as JSON")
}
