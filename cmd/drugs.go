package cmd

import (
	"fmt"
	"strconv"

	"charm.land/lipgloss/v2"
	"charm.land/lipgloss/v2/table"
	"github.com/spf13/cobra"

	"github.com/abhisek/pharmdrill/internal/dataset"
	"github.com/abhisek/pharmdrill/internal/ui/components"
)

var drugsCmd = &cobra.Command{
	Use:   "drugs",
	Short: "Inspect the loaded drug table",
}

var drugsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List drugs by section",
	RunE:  runDrugsList,
}

var drugsShowCmd = &cobra.Command{
	Use:   "show <generic-name>",
	Short: "Show every attribute of one drug",
	Args:  cobra.ExactArgs(1),
	RunE:  runDrugsShow,
}

func init() {
	drugsListCmd.Flags().String("section", "", "Only list this section")
	drugsListCmd.Flags().StringSlice("columns", []string{"generic", "brand", "class"},
		"Attributes to show (header names or slugs)")
	drugsCmd.AddCommand(drugsListCmd)
	drugsCmd.AddCommand(drugsShowCmd)
}

func runDrugsList(cmd *cobra.Command, args []string) error {
	only, _ := cmd.Flags().GetString("section")
	colNames, _ := cmd.Flags().GetStringSlice("columns")

	var cols []dataset.Attribute
	for _, name := range colNames {
		a, err := dataset.ParseAttribute(name)
		if err != nil {
			return err
		}
		cols = append(cols, a)
	}

	env, err := openEnv(cmd, envOpts{data: true})
	if err != nil {
		return err
	}
	defer env.Close()

	sections := env.Dataset.Sections
	if only != "" {
		sec, ok := env.Dataset.Section(only)
		if !ok {
			return fmt.Errorf("unknown section %q", only)
		}
		sections = []dataset.Section{sec}
	}

	headers := []string{"ID", "Section"}
	for _, a := range cols {
		headers = append(headers, a.Header())
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...)
	for _, sec := range sections {
		for _, id := range sec.IDs {
			rec, _ := env.Dataset.Record(id)
			row := []string{strconv.Itoa(id), sec.Name}
			for _, a := range cols {
				row = append(row, components.TruncateLabel(rec.Value(a), 40))
			}
			t.Row(row...)
		}
	}

	fmt.Fprintln(cmd.OutOrStdout(), t.String())
	return nil
}

func runDrugsShow(cmd *cobra.Command, args []string) error {
	env, err := openEnv(cmd, envOpts{data: true})
	if err != nil {
		return err
	}
	defer env.Close()

	rec, ok := env.Dataset.FindByName(args[0])
	if !ok {
		return fmt.Errorf("no drug named %q", args[0])
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s  [#%d, %s]\n\n", rec.Label(), rec.ID, rec.Section)
	for _, a := range dataset.AllAttributes() {
		if v := rec.Value(a); v != "" {
			fmt.Fprintf(out, "%-16s %s\n", a.Header()+":", v)
		}
	}
	return nil
}
