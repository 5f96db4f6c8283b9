package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/growthlab/internal/store"
)

var historyCmd = &cobra.Command{
	Use:   "history [challenge-id]",
	Short: "Show attempt history",
	Long: `Without arguments, prints per-challenge statistics for the learner.
With a challenge ID, lists every graded attempt on that challenge.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		user := resolveUser(cmd)
		out := cmd.OutOrStdout()

		if len(args) == 0 {
			stats, err := st.Stats(ctx, user)
			if err != nil {
				return fmt.Errorf("query stats: %w", err)
			}
			if len(stats) == 0 {
				fmt.Fprintln(out, "No attempts recorded.")
				return nil
			}
			fmt.Fprintf(out, "%-24s  %-8s  %-6s  %-9s  %-6s  %s\n",
				"Challenge", "Attempts", "Passes", "Pass rate", "Best", "Last attempt")
			fmt.Fprintln(out, strings.Repeat("─", 80))
			for _, s := range stats {
				fmt.Fprintf(out, "%-24s  %-8d  %-6d  %8.0f%%  %-6.1f  %s\n",
					s.ChallengeID,
					s.Attempts,
					s.Passes,
					s.PassRate()*100,
					s.BestScore,
					s.LastAttempt.Local().Format("2006-01-02 15:04:05"),
				)
			}
			return nil
		}

		events, err := st.QueryAttempts(ctx, user, args[0], store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		if len(events) == 0 {
			fmt.Fprintf(out, "No attempts on %s.\n", args[0])
			return nil
		}
		fmt.Fprintf(out, "%-5s  %-19s  %-7s  %-6s  %-6s  %-7s  %-5s  %s\n",
			"Seq", "Timestamp", "Attempt", "Base", "Score", "Penalty", "Grade", "OK")
		fmt.Fprintln(out, strings.Repeat("─", 80))
		for _, e := range events {
			ok := "✓"
			switch {
			case e.DirectFail:
				ok = "✗ direct fail"
			case e.Critical > 0 && !e.Passed:
				ok = "✗ critical"
			case !e.Passed:
				ok = "✗"
			}
			fmt.Fprintf(out, "%-5d  %-19s  %-7d  %-6.1f  %-6.1f  %-7.1f  %-5s  %s\n",
				e.Sequence,
				e.Timestamp.Local().Format("2006-01-02 15:04:05"),
				e.Attempt,
				e.BaseScore,
				e.Score,
				e.Penalty,
				e.Grade,
				ok,
			)
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 50, "Maximum attempts to list")
}
