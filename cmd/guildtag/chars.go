package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/guildtag/internal/tabular"
)

var charsCSV bool

// charsCmd prints the reference table of every known character
var charsCmd = &cobra.Command{
	Use:   "chars",
	Short: "List every known character and its maps",
	Args:  cobra.NoArgs,
	RunE:  runChars,
}

func runChars(cmd *cobra.Command, args []string) error {
	t, err := loadTable(cmd)
	if err != nil {
		return err
	}

	entries := t.Entries()
	rows := make([][]string, len(entries))
	for i, e := range entries {
		rows[i] = []string{e.Char, strings.Join(e.Maps, ", ")}
	}

	out := cmd.OutOrStdout()
	if charsCSV {
		csvRows := make([]tabular.Row, 0, len(rows)+1)
		csvRows = append(csvRows, tabular.Row{"Character", "Maps"})
		for _, r := range rows {
			csvRows = append(csvRows, tabular.Row{r[0], strings.ReplaceAll(r[1], ", ", "; ")})
		}
		return tabular.Write(out, csvRows)
	}

	tbl := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Char", "Maps").
		Rows(rows...)
	fmt.Fprintln(out, tbl.String())
	fmt.Fprintf(out, "%d characters\n", len(entries))

	for _, w := range t.Warnings() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning:", w)
	}
	return nil
}

func init() {
	charsCmd.Flags().BoolVar(&charsCSV, "csv", false, "Write the table as CSV")
}
