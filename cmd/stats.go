package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/pharmdrill/internal/study"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show study statistics",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().Int("limit", 15, "Rows in the recent-session and weakest-drug tables")
}

func runStats(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	env, err := openEnv(cmd, envOpts{data: true, optional: true})
	if err != nil {
		return err
	}
	defer env.Close()

	out := cmd.OutOrStdout()
	ov := env.Progress.Overall()
	fmt.Fprintf(out, "Questions: %d   Correct: %d   Accuracy: %.1f%%   Sessions: %d\n\n",
		ov.TotalQuestions, ov.TotalCorrect, ov.Accuracy, ov.Sessions)

	recent := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Mode", "Correct", "Total", "Accuracy")
	for _, o := range env.Progress.RecentSessions(limit) {
		recent.Row(
			o.Date.Local().Format("2006-01-02 15:04"),
			study.TagLabel(o.Mode),
			strconv.Itoa(o.Correct),
			strconv.Itoa(o.Total),
			fmt.Sprintf("%.1f%%", o.Accuracy),
		)
	}
	fmt.Fprintln(out, "Recent sessions")
	fmt.Fprintln(out, recent.String())

	if env.Dataset == nil {
		fmt.Fprintln(out, "\nDrug table not loaded; per-drug results need --data.")
		return nil
	}
	drugs := env.Progress.DrugStats(env.Dataset)
	if limit > 0 && len(drugs) > limit {
		drugs = drugs[:limit]
	}
	weak := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Drug", "Correct", "Total", "Accuracy")
	for _, d := range drugs {
		weak.Row(d.Name, strconv.Itoa(d.Correct), strconv.Itoa(d.Total), fmt.Sprintf("%.1f%%", d.Accuracy))
	}
	fmt.Fprintln(out, "\nDrugs needing practice")
	fmt.Fprintln(out, weak.String())
	return nil
}
