package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/pharmdrill/internal/qa"
	"github.com/abhisek/pharmdrill/internal/store"
	"github.com/abhisek/pharmdrill/internal/study"
)

var qaCmd = &cobra.Command{
	Use:   "qa",
	Short: "Run a Q&A drill in the plain terminal",
	Long: `Generate questions from the drug table and answer them line by line.

Type an answer and press Enter. ":reveal" shows the answer, ":skip" moves on
and ":end" (or end of input) finishes the session. Results are saved to the
progress file like a TUI session.`,
	RunE: runQA,
}

func init() {
	qaCmd.Flags().Int("count", 0, "Stop after this many questions (0 = every generated question)")
	qaCmd.Flags().StringSlice("section", nil, "Only ask about these sections")
	qaCmd.Flags().Uint64("seed", 0, "Shuffle seed for a repeatable drill (0 = random)")
}

func runQA(cmd *cobra.Command, args []string) error {
	count, _ := cmd.Flags().GetInt("count")
	sections, _ := cmd.Flags().GetStringSlice("section")
	seed, _ := cmd.Flags().GetUint64("seed")

	env, err := openEnv(cmd, envOpts{data: true, reconcile: true, events: true})
	if err != nil {
		return err
	}
	defer env.Close()

	if len(sections) > 0 {
		env.Selection.DeselectAll()
		for _, name := range sections {
			if err := env.Selection.ToggleSection(name, true); err != nil {
				return err
			}
		}
	}
	subset, err := env.Selection.WorkingSubset()
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewPCG(seed, seed))
	}
	exercises, err := qa.Generate(subset, rng)
	if err != nil {
		return err
	}
	if count > 0 && len(exercises) > count {
		exercises = exercises[:count]
	}

	d := &drill{
		session: qa.NewSession(exercises),
		events:  env.Events(),
		log:     env.Logger,
		in:      bufio.NewScanner(cmd.InOrStdin()),
		out:     cmd.OutOrStdout(),
	}
	d.run()

	sum, err := d.session.Finish(env.Progress)
	d.logSession(store.SessionEventData{
		Action:       store.ActionEnd,
		Total:        sum.Total,
		Correct:      sum.Correct,
		DurationSecs: int(sum.Duration / time.Second),
	})

	fmt.Fprintf(d.out, "── Summary: %d/%d correct (%.1f%%) ──\n", sum.Correct, sum.Total, sum.Accuracy)
	fmt.Fprintln(d.out, sum.Rating)
	if err != nil {
		return fmt.Errorf("save progress: %w", err)
	}
	return nil
}

// drill is the line-oriented counterpart of the Q&A screen.
type drill struct {
	session *qa.Session
	events  store.EventRepo
	log     *zap.Logger
	in      *bufio.Scanner
	out     io.Writer
}

func (d *drill) run() {
	_, total := d.session.Position()
	d.logSession(store.SessionEventData{Action: store.ActionStart, Total: total})

	for {
		ex, ok := d.session.Current()
		if !ok {
			return
		}
		idx, _ := d.session.Position()
		fmt.Fprintf(d.out, "── Question %d/%d ──\n", idx+1, total)
		fmt.Fprintln(d.out, ex.Prompt)
		fmt.Fprint(d.out, "\nYour answer: ")

		if !d.in.Scan() {
			fmt.Fprintln(d.out, "\n(input closed)")
			return
		}
		answer := strings.TrimSpace(d.in.Text())

		switch strings.ToLower(answer) {
		case ":end":
			return
		case ":reveal":
			expected, _ := d.session.Reveal()
			fmt.Fprintf(d.out, "Answer: %s\n\n", expected)
			continue
		case ":skip", "":
			_ = d.session.Skip()
			fmt.Fprintln(d.out, "(skipped)")
			fmt.Fprintln(d.out)
			continue
		}

		attempt, err := d.session.Submit(answer)
		if err != nil {
			return
		}
		d.logAttempt(attempt)
		if attempt.Correct {
			fmt.Fprintln(d.out, "\033[32m✓ Correct!\033[0m")
		} else {
			fmt.Fprintf(d.out, "\033[31m✗ Not quite.\033[0m Answer: %s\n", ex.Expected)
		}
		fmt.Fprintln(d.out)
	}
}

func (d *drill) logAttempt(a qa.Attempt) {
	if d.events == nil {
		return
	}
	ex := a.Exercise
	err := d.events.AppendAttempt(context.Background(), store.AttemptEventData{
		SessionID: d.session.ID,
		DrugID:    ex.DrugID,
		DrugName:  ex.DrugName,
		Relation:  ex.Kind.String(),
		Prompt:    ex.Prompt,
		Expected:  ex.Expected,
		Answer:    a.Answer,
		Correct:   a.Correct,
	})
	if err != nil {
		d.log.Warn("attempt not logged", zap.Error(err))
	}
}

func (d *drill) logSession(data store.SessionEventData) {
	if d.events == nil {
		return
	}
	data.SessionID = d.session.ID
	data.Mode = study.QA.Tag()
	if err := d.events.AppendSessionEvent(context.Background(), data); err != nil {
		d.log.Warn("session event not logged", zap.Error(err))
	}
}
