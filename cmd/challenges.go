package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/growthlab/internal/catalog"
	"github.com/abhisek/growthlab/internal/spacedrep"
)

var challengesCmd = &cobra.Command{
	Use:   "challenges",
	Short: "List challenges and the learner's progress on them",
	RunE: func(cmd *cobra.Command, args []string) error {
		available, _ := cmd.Flags().GetBool("available")
		due, _ := cmd.Flags().GetBool("due")

		cat, err := loadCatalog(cmd)
		if err != nil {
			return err
		}
		st, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := cmd.Context()
		user := resolveUser(cmd)
		passed, err := st.PassedChallenges(ctx, user)
		if err != nil {
			return err
		}
		unlocked, err := st.Unlocked(ctx, user)
		if err != nil {
			return err
		}
		reviews, err := st.LoadReviews(ctx, user)
		if err != nil {
			return err
		}
		sched := spacedrep.NewScheduler(reviews)
		now := time.Now()

		out := cmd.OutOrStdout()
		if due {
			ids := sched.Due(now)
			if len(ids) == 0 {
				fmt.Fprintln(out, "No weak points due for review.")
				return nil
			}
			for _, id := range ids {
				w := sched.Get(id)
				fmt.Fprintf(out, "%-24s stage %d  %s\n", id, w.Stage, w.Status(now))
			}
			return nil
		}

		rows := challengeRows(cat, passed, unlocked, sched, now)
		if available {
			rows = filterRows(rows, statusAvailable)
		}
		printChallenges(out, rows)
		return nil
	},
}

func init() {
	challengesCmd.Flags().Bool("available", false, "Only list unlocked challenges not yet passed")
	challengesCmd.Flags().Bool("due", false, "List weak points due for review")
}

const (
	statusPassed    = "passed"
	statusAvailable = "available"
	statusLocked    = "locked"
)

type challengeRow struct {
	ID     string
	Type   string
	Title  string
	Status string
	Review string
}

// challengeRows lists the catalog in unlock order. Roots and explicitly
// unlocked challenges are available until passed.
func challengeRows(cat *catalog.Catalog, passed, unlocked map[string]bool, sched *spacedrep.Scheduler, now time.Time) []challengeRow {
	roots := make(map[string]bool)
	for _, id := range cat.Roots() {
		roots[id] = true
	}
	var rows []challengeRow
	for _, ch := range cat.All() {
		r := challengeRow{ID: ch.ID, Type: string(ch.Type), Title: ch.Title, Status: statusLocked}
		switch {
		case passed[ch.ID]:
			r.Status = statusPassed
		case roots[ch.ID] || unlocked[ch.ID]:
			r.Status = statusAvailable
		}
		if w := sched.Get(ch.ID); w != nil {
			r.Review = string(w.Status(now))
		}
		rows = append(rows, r)
	}
	return rows
}

func filterRows(rows []challengeRow, status string) []challengeRow {
	var out []challengeRow
	for _, r := range rows {
		if r.Status == status {
			out = append(out, r)
		}
	}
	return out
}

func printChallenges(w io.Writer, rows []challengeRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No challenges found.")
		return
	}
	fmt.Fprintf(w, "%-24s  %-16s  %-10s  %-10s  %s\n", "ID", "Type", "Status", "Review", "Title")
	fmt.Fprintln(w, strings.Repeat("─", 90))
	for _, r := range rows {
		fmt.Fprintf(w, "%-24s  %-16s  %-10s  %-10s  %s\n", r.ID, r.Type, r.Status, r.Review, r.Title)
	}
}
