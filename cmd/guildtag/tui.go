package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/guildtag/internal/tui"
)

var (
	tuiLogPath string
	tuiLog     *os.File
)

// tuiCmd runs the terminal UI
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the interactive terminal UI",
	Long: `Type a tag to see the maps for each character. Press tab to move to the
character table and enter to append the selected character. Esc quits.

The terminal UI owns the screen, so logs go to --log-file (or nowhere).`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if tuiLog != nil {
		defer tuiLog.Close()
	}

	ctx := cmd.Context()
	catalog := newCatalog()

	// Start the load now; the model waits on the same catalog
	go func() {
		loadCtx, cancel := context.WithTimeout(ctx, cfg.Data.LoadTimeout)
		defer cancel()
		catalog.Load(loadCtx)
	}()

	return tui.Run(ctx, catalog)
}

// openTUILog opens --log-file for appending. setup calls it before the
// logger is installed.
func openTUILog() (io.Writer, error) {
	if tuiLogPath == "" {
		return io.Discard, nil
	}
	f, err := os.OpenFile(tuiLogPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	tuiLog = f
	return f, nil
}

func init() {
	tuiCmd.Flags().StringVar(&tuiLogPath, "log-file", "", "Append logs to this file")
}
