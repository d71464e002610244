package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var lookupJSON bool

// lookupCmd resolves one tag and prints the maps per character
var lookupCmd = &cobra.Command{
	Use:   "lookup [TAG]",
	Short: "Show the maps required for a guild tag",
	Long: `Resolve every character of TAG against the map data. Tags longer than
6 characters are truncated.`,
	Example: `  guildtag lookup Az9
  guildtag lookup --json "MAPS"`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLookup,
}

func runLookup(cmd *cobra.Command, args []string) error {
	table, err := loadTable(cmd)
	if err != nil {
		return err
	}

	tag := ""
	if len(args) == 1 {
		tag = args[0]
	}
	view := table.Lookup(tag)

	out := cmd.OutOrStdout()
	if lookupJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}

	if view.Tag == "" {
		fmt.Fprintln(out, view.Status)
		return nil
	}

	fmt.Fprintf(out, "Tag: %s (%s)\n", view.Tag, view.Counter())
	for _, res := range view.Results {
		fmt.Fprintln(out, res.String())
	}
	if view.Status != "" {
		fmt.Fprintln(out, view.Status)
	}
	return nil
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupJSON, "json", false, "Print the result as JSON")
}
