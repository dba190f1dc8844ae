package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Erase all study progress",
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")

		env, err := openEnv(cmd, envOpts{})
		if err != nil {
			return err
		}
		defer env.Close()

		if !yes {
			fmt.Fprintf(cmd.OutOrStdout(), "Erase all progress in %s? [y/N] ", env.Progress.Path())
			sc := bufio.NewScanner(cmd.InOrStdin())
			if !sc.Scan() || !strings.EqualFold(strings.TrimSpace(sc.Text()), "y") {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
		}

		if err := env.Progress.ResetAll(); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "All progress has been reset.")
		return nil
	},
}

func init() {
	resetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}
