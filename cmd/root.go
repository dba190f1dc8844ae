package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/pharmdrill/internal/app"
)

var rootCmd = &cobra.Command{
	Use:   "pharmdrill",
	Short: "Terminal study drills for a drug reference table",
	Long: `PharmDrill loads a drug reference sheet (CSV or XLSX) and drills it with
a matching game, Q&A practice and flashcards, tracking progress per drug.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "Path to a config file (default: ./pharmdrill.yaml or the data directory)")
	pf.String("env-file", "", "Path to a .env file (default: ./.env)")
	pf.String("data", "", "Path to the drug table, .csv or .xlsx (overrides PHARMDRILL_DATA_PATH)")
	pf.String("sheet", "", "Worksheet name for spreadsheet data")
	pf.String("progress", "", "Path to the progress JSON file (overrides PHARMDRILL_PROGRESS_PATH)")
	pf.String("db", "", "Path to the SQLite event log; \"off\" disables it (overrides PHARMDRILL_EVENTS_DB)")
	pf.String("export-dir", "", "Directory for progress exports")
	pf.String("log-file", "", "Log file path")

	rootCmd.AddCommand(qaCmd)
	rootCmd.AddCommand(drugsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// runApp loads everything and launches the TUI.
func runApp(cmd *cobra.Command) error {
	env, err := openEnv(cmd, envOpts{data: true, reconcile: true, events: true})
	if err != nil {
		return err
	}
	defer env.Close()

	return app.Run(app.Options{
		Selection: env.Selection,
		Progress:  env.Progress,
		Events:    env.Events(),
		Matching:  env.Config.Matching,
		ExportDir: env.Config.ExportDir,
		Logger:    env.Logger,
	})
}
