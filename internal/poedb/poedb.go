// Package poedb regenerates the map data file from the PoEDB maps page.
//
// The page lists every map as an anchor followed, somewhere later, by a
// "Guild Tag Editor:" label and a span holding the character the map grants.
// Parse walks the token stream and pairs each character with the most
// recent map name.
package poedb

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"

	"golang.org/x/net/html"

	"github.com/JonMunkholm/guildtag/internal/tabular"
)

// ErrNoEntries is returned when a page yields no map entries, usually
// because the page layout changed.
var ErrNoEntries = errors.New("no map entries found: page structure may have changed")

// Header is the first row of a generated data file.
var Header = tabular.Row{"Map", "Guild tag character"}

const guildTagLabel = "Guild Tag Editor:"

// Conflict records a map that appeared twice with different characters.
// The first character seen is kept.
type Conflict struct {
	Map      string
	Existing string
	Ignored  string
}

// Result is what Parse extracted from a page.
type Result struct {
	Entries   map[string]string // map name -> guild tag character
	Conflicts []Conflict
}

// Parse extracts map name / guild character pairs from a PoEDB maps page.
func Parse(r io.Reader) (Result, error) {
	res := Result{Entries: make(map[string]string)}

	var (
		lastMap          string
		captureMapName   bool
		awaitingChar     bool
		captureGuildChar bool
	)

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return res, fmt.Errorf("parse page: %w", err)
			}
			if len(res.Entries) == 0 {
				return res, ErrNoEntries
			}
			return res, nil

		case html.StartTagToken:
			tok := z.Token()
			class := attr(tok, "class")
			switch {
			case tok.Data == "a" && strings.Contains(class, "itemclass_map") && strings.Contains(class, "Map"):
				captureMapName = true
			case tok.Data == "span" && awaitingChar && strings.Contains(class, "colourDefault"):
				captureGuildChar = true
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "span":
				captureGuildChar = false
			case "a":
				captureMapName = false
			}

		case html.TextToken:
			text := strings.TrimSpace(string(z.Text()))
			if text == "" {
				continue
			}

			if captureMapName {
				lastMap = text
				captureMapName = false
				continue
			}

			if text == guildTagLabel {
				awaitingChar = true
				continue
			}

			if captureGuildChar {
				captureGuildChar = false
				awaitingChar = false
				if lastMap == "" {
					continue
				}
				if existing, ok := res.Entries[lastMap]; ok && existing != text {
					res.Conflicts = append(res.Conflicts, Conflict{Map: lastMap, Existing: existing, Ignored: text})
					continue
				}
				res.Entries[lastMap] = text
			}
		}
	}
}

func attr(tok html.Token, key string) string {
	for _, a := range tok.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// Fetch downloads the page at url. The caller closes the returned body.
func Fetch(ctx context.Context, client *http.Client, url, userAgent string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if userAgent != "" {
		req.Header.Set("User-Agent", userAgent)
	}

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch failed: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("fetch %s: unexpected status %d", url, resp.StatusCode)
	}
	return resp.Body, nil
}

// Rows converts entries to data file rows, header first and maps sorted by
// name.
func Rows(entries map[string]string) []tabular.Row {
	names := make([]string, 0, len(entries))
	for name := range entries {
		names = append(names, name)
	}
	slices.Sort(names)

	rows := make([]tabular.Row, 0, len(names)+1)
	rows = append(rows, Header)
	for _, name := range names {
		rows = append(rows, tabular.Row{name, entries[name]})
	}
	return rows
}

// WriteCSV writes entries as a data file.
func WriteCSV(w io.Writer, entries map[string]string) error {
	return tabular.Write(w, Rows(entries))
}
