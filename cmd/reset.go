package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/growthlab/internal/session"
)

var resetCmd = &cobra.Command{
	Use:   "reset [challenge-id]",
	Short: "Reset learner data",
	Long: `With a challenge ID, abandons the learner's session on it so the next
submission starts again at the first attempt with no error streak.
Without arguments, deletes all of the learner's sessions, attempts,
unlocks and reviews; this needs --yes.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if len(args) == 0 && !yes {
			return fmt.Errorf("refusing to delete all data without --yes")
		}

		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		user := resolveUser(cmd)
		out := cmd.OutOrStdout()

		if len(args) == 1 {
			tracker := session.NewTracker(st.SessionRepo())
			if err := tracker.Abandon(ctx, user, args[0]); err != nil {
				return fmt.Errorf("abandon session: %w", err)
			}
			fmt.Fprintf(out, "Session on %s reset for %s.\n", args[0], user)
			return nil
		}

		if err := st.ResetUser(ctx, user); err != nil {
			return fmt.Errorf("reset user: %w", err)
		}
		fmt.Fprintf(out, "All data deleted for %s.\n", user)
		return nil
	},
}

func init() {
	resetCmd.Flags().Bool("yes", false, "Confirm deleting all data for the learner")
}
