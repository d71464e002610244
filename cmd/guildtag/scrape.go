package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/guildtag/internal/poedb"
)

var (
	scrapeInputHTML string
	scrapeURL       string
	scrapeOutput    string
)

// scrapeCmd regenerates the data file from PoEDB
var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Regenerate the map data CSV from PoEDB",
	Long: `Download the PoEDB maps page (or read a saved copy with --input-html),
extract each map's guild tag character and write the data file.

When a map appears twice with different characters the first one is kept and
a warning is logged. Use --output - to write to stdout.`,
	Example: `  guildtag scrape
  guildtag scrape --input-html Maps.html --output maps.csv`,
	Args: cobra.NoArgs,
	RunE: runScrape,
}

func runScrape(cmd *cobra.Command, args []string) error {
	src, name, err := openScrapeSource(cmd.Context())
	if err != nil {
		return err
	}
	defer src.Close()

	res, err := poedb.Parse(src)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	for _, c := range res.Conflicts {
		slog.Warn("conflicting guild tag character, keeping first",
			"map", c.Map,
			"kept", c.Existing,
			"ignored", c.Ignored,
		)
	}

	output := scrapeOutput
	if output == "" {
		output = cfg.Scrape.Output
	}

	if output == "-" {
		return poedb.WriteCSV(cmd.OutOrStdout(), res.Entries)
	}

	n, err := writeFileAtomic(output, func(w io.Writer) error {
		return poedb.WriteCSV(w, res.Entries)
	})
	if err != nil {
		return err
	}

	slog.Info("data file written", "path", output, "maps", len(res.Entries), "size", humanize.Bytes(uint64(n)))
	fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %d maps to %s\n", len(res.Entries), output)
	return nil
}

// openScrapeSource returns the saved page when --input-html is set, and
// downloads the maps page otherwise.
func openScrapeSource(ctx context.Context) (io.ReadCloser, string, error) {
	if scrapeInputHTML != "" {
		f, err := os.Open(scrapeInputHTML)
		if err != nil {
			return nil, "", fmt.Errorf("open page: %w", err)
		}
		return f, scrapeInputHTML, nil
	}

	url := scrapeURL
	if url == "" {
		url = cfg.Scrape.URL
	}

	// The timeout covers the whole download, including reading the body
	client := &http.Client{Timeout: cfg.Scrape.Timeout}
	body, err := poedb.Fetch(ctx, client, url, cfg.Data.UserAgent)
	if err != nil {
		return nil, "", err
	}
	slog.Info("fetched maps page", "url", url)
	return body, url, nil
}

// countingWriter counts bytes written through it.
type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// writeFileAtomic writes path through a temp file in the same directory so
// a failed scrape never leaves a truncated data file behind.
func writeFileAtomic(path string, write func(io.Writer) error) (int64, error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".guildtag-*.csv")
	if err != nil {
		return 0, fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	cw := &countingWriter{w: tmp}
	if err := write(cw); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return 0, fmt.Errorf("replace %s: %w", path, err)
	}
	return cw.n, nil
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeInputHTML, "input-html", "", "Parse a saved copy of the maps page instead of downloading it")
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "Maps page URL (default from SCRAPE_URL)")
	scrapeCmd.Flags().StringVarP(&scrapeOutput, "output", "o", "", "Output CSV path, - for stdout (default from SCRAPE_OUTPUT)")
}
