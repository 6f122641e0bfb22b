package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rnakai/typedrill/internal/stats"
	"github.com/rnakai/typedrill/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show typing statistics from past sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath, err := resolveDBPath(cmd)
		if err != nil {
			return fmt.Errorf("resolve DB path: %w", err)
		}
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer func() { _ = st.Close() }()

		limit, _ := cmd.Flags().GetInt("last")
		records, err := st.ListRecent(cmd.Context(), limit)
		if err != nil {
			return fmt.Errorf("load results: %w", err)
		}
		if len(records) == 0 {
			fmt.Println("No sessions recorded yet.")
			return nil
		}

		summary := stats.Summarize(records)
		fmt.Printf("Sessions       %d\n", summary.Sessions)
		fmt.Printf("Characters     %d typed, %d correct\n", summary.TotalChars, summary.CorrectChars)
		fmt.Printf("Practice time  %s\n", summary.TotalDuration.Round(time.Second))
		fmt.Printf("Avg accuracy   %.2f%%\n", summary.AvgAccuracy)
		fmt.Printf("Best           %.1f (%s)\n", summary.BestJudgment, summary.BestRank)
		fmt.Printf("Latest         %.1f (%s) on %s\n",
			summary.LatestJudgment, summary.LatestRank,
			summary.LatestStartedAt.Local().Format("2006-01-02 15:04"))
		if summary.Unsynced > 0 {
			fmt.Printf("Unsynced       %d (run `typedrill sync` to forward)\n", summary.Unsynced)
		}

		if limit > 0 {
			fmt.Println()
			for _, rec := range records {
				fmt.Printf("%s  %-10s %6.2f%%  %6.1f  %s\n",
					rec.StartedAt.Local().Format("2006-01-02 15:04"),
					rec.Language, rec.AccuracyPercent, rec.JudgmentValue, rec.Rank)
			}
		}

		byLang, _ := cmd.Flags().GetBool("by-language")
		if byLang {
			fmt.Println()
			for lang, s := range stats.ByLanguage(records) {
				fmt.Printf("%-12s %d sessions, %.2f%% avg accuracy, best %.1f (%s)\n",
					lang, s.Sessions, s.AvgAccuracy, s.BestJudgment, s.BestRank)
			}
		}
		return nil
	},
}

func init() {
	statsCmd.Flags().Int("last", 0, "Limit to the most recent N sessions (0 = all)")
	statsCmd.Flags().Bool("by-language", false, "Break statistics down per language")
}
