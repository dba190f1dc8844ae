package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a timestamped copy of your progress",
	Long: `Write drug_study_export_YYYYMMDD_HHMMSS.json with overall statistics,
session history and per-drug scores. The live progress file is not modified.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openEnv(cmd, envOpts{})
		if err != nil {
			return err
		}
		defer env.Close()

		path, err := env.Progress.ExportSnapshot(env.Config.ExportDir)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Progress exported to", path)
		return nil
	},
}
