package cmd

import (
	"fmt"
	"strconv"
	"time"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/pharmdrill/internal/store"
	"github.com/abhisek/pharmdrill/internal/study"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past sessions from the event log",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "Maximum sessions to show")
	historyCmd.Flags().Duration("since", 0, "Only sessions within this long ago (e.g. 168h)")
	historyCmd.Flags().String("session", "", "Show the answers given in one session")
	historyCmd.Flags().Int("drug", -1, "Show answers and accuracy for one drug ID")
}

func runHistory(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
	since, _ := cmd.Flags().GetDuration("since")
	sessionID, _ := cmd.Flags().GetString("session")
	drugID, _ := cmd.Flags().GetInt("drug")

	env, err := openEnv(cmd, envOpts{events: true})
	if err != nil {
		return err
	}
	defer env.Close()

	repo, err := env.requireEvents()
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	opts := store.QueryOpts{Limit: limit}
	if since > 0 {
		opts.From = time.Now().Add(-since)
	}

	if sessionID != "" || drugID >= 0 {
		opts.SessionID = sessionID
		if drugID >= 0 {
			opts.DrugID = &drugID
			acc, n, err := repo.DrugAccuracy(ctx, drugID)
			if err != nil {
				return fmt.Errorf("drug accuracy: %w", err)
			}
			fmt.Fprintf(out, "Drug #%d: %d answers, %.1f%% correct\n\n", drugID, n, acc*100)
		}
		attempts, err := repo.QueryAttempts(ctx, opts)
		if err != nil {
			return fmt.Errorf("query attempts: %w", err)
		}
		t := table.New().
			Border(lipgloss.NormalBorder()).
			Headers("Time", "Drug", "Question", "Answer", "Expected", "")
		for _, a := range attempts {
			mark := "✓"
			if !a.Correct {
				mark = "✗"
			}
			t.Row(a.Timestamp.Local().Format("2006-01-02 15:04:05"), a.DrugName, a.Relation, a.Answer, a.Expected, mark)
		}
		fmt.Fprintln(out, t.String())
		return nil
	}

	sessions, err := repo.QuerySessionSummaries(ctx, opts)
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(out, "No sessions yet.")
		return nil
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Ended", "Mode", "Correct", "Total", "Accuracy", "Duration", "Session")
	for _, s := range sessions {
		t.Row(
			s.Timestamp.Local().Format("2006-01-02 15:04"),
			study.TagLabel(s.Mode),
			strconv.Itoa(s.Correct),
			strconv.Itoa(s.Total),
			fmt.Sprintf("%.1f%%", study.Accuracy(s.Correct, s.Total)),
			(time.Duration(s.DurationSecs) * time.Second).String(),
			s.SessionID,
		)
	}
	fmt.Fprintln(out, t.String())
	return nil
}
