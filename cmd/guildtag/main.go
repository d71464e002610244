// Command guildtag looks up which maps grant the characters of a Path of
// Exile guild tag. It serves a web UI, runs a terminal UI, answers one-off
// lookups and regenerates the data file from PoEDB.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/guildtag/internal/config"
	"github.com/JonMunkholm/guildtag/internal/core"
	"github.com/JonMunkholm/guildtag/internal/logging"
)

var (
	// Global flags
	dataSource string
	configFile string
	logLevel   string

	// Loaded by setup before any subcommand runs
	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "guildtag",
	Short: "Guild Tag Map Helper",
	Long: `Guild Tag Map Helper shows which maps grant each character of a
guild tag (up to 6 characters).

The map data is read once from a CSV file (or URL) with a header row and
rows of "map name, character, ...". Use "guildtag scrape" to regenerate it
from PoEDB.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// setup loads .env, configuration and logging for every subcommand.
func setup(cmd *cobra.Command, args []string) error {
	// Load .env file if it exists (Overload overwrites existing env vars)
	envErr := godotenv.Overload()

	var c *config.Config
	var err error
	if configFile != "" {
		c, err = config.LoadFile(configFile)
	} else {
		c, err = config.Load()
	}
	if err != nil {
		return err
	}
	if dataSource != "" {
		c.Data.Source = dataSource
	}
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	cfg = c

	w, err := logWriter(cmd)
	if err != nil {
		return err
	}
	logging.SetupWriter(w, cfg.Logging.Level, cfg.Logging.Format)
	if envErr == nil {
		slog.Debug("loaded .env file (overwriting existing env vars)")
	}
	slog.Debug("configuration loaded", "config", cfg.String())
	return nil
}

// logWriter picks the log destination: the server logs to stdout, the
// terminal UI to its log file, everything else to stderr so stdout only
// carries command output.
func logWriter(cmd *cobra.Command) (io.Writer, error) {
	switch cmd.Name() {
	case "serve":
		return cmd.OutOrStdout(), nil
	case "tui":
		return openTUILog()
	default:
		return cmd.ErrOrStderr(), nil
	}
}

// newCatalog creates the catalog for the configured data source.
func newCatalog() *core.Catalog {
	return core.NewCatalog(cfg.Data.Source, core.LoadOptions{
		MaxBytes:  cfg.Data.MaxBytes,
		Client:    &http.Client{Timeout: cfg.Data.LoadTimeout},
		UserAgent: cfg.Data.UserAgent,
	})
}

// loadTable performs the startup load synchronously. On failure it prints
// the fixed failure message and returns the load error.
func loadTable(cmd *cobra.Command) (*core.Table, error) {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Data.LoadTimeout)
	defer cancel()

	catalog := newCatalog()
	if err := catalog.Load(ctx); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), core.LoadFailureMessage)
		return nil, fmt.Errorf("load map data: %w", err)
	}
	return catalog.Table()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&dataSource, "data", "d", "", "Map data CSV file or URL (overrides DATA_SOURCE)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "YAML config file (overrides CONFIG_FILE)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(lookupCmd)
	rootCmd.AddCommand(charsCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(scrapeCmd)
}

// reportError prints err, followed by the support message when the error
// maps to a known one.
func reportError(w io.Writer, err error) {
	fmt.Fprintln(w, "Error:", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(w, core.FormatUserError(err))
	}
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		reportError(os.Stderr, err)
		os.Exit(1)
	}
}
