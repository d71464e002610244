package core

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/guildtag/internal/tabular"
)

// NoCharacterMarker is the data file value meaning "this map grants no
// guild tag character".
const NoCharacterMarker = "—"

// BuildStats counts what Build saw while reading the data rows.
type BuildStats struct {
	Rows           int // data rows after the header
	InvalidRows    int // rows with tag columns but no map name
	InvalidEntries int // tag values longer than one character
	Associations   int // distinct character -> map pairs
}

// Entry is one line of the reference table.
type Entry struct {
	Char string   `json:"char"`
	Maps []string `json:"maps"`
}

// Resolution is the outcome of resolving a single tag character.
type Resolution struct {
	Key  rune     // table key that matched; differs from the query on case fallback
	Maps []string // sorted map names
}

// Table maps guild tag characters to the maps that grant them.
// It is built once by Build and never modified afterwards, so it is safe
// to share between goroutines.
type Table struct {
	maps  map[rune]map[string]struct{}
	chars []rune
	stats BuildStats
}

// Build creates a Table from parsed rows. The first row is a header and is
// discarded.
//
// Each data row is "map name, tag char, tag char, ...". Rows without a map
// name or without any non-empty tag field are skipped. Tag fields equal to
// NoCharacterMarker, or that are not exactly one character long, are ignored.
func Build(rows []tabular.Row) *Table {
	t := &Table{maps: make(map[rune]map[string]struct{})}

	if len(rows) > 0 {
		rows = rows[1:]
	}

	for _, row := range rows {
		t.stats.Rows++
		if len(row) < 2 {
			continue
		}

		mapName := strings.TrimSpace(row[0])
		if mapName == "" {
			t.stats.InvalidRows++
			continue
		}

		for _, field := range row[1:] {
			tag := strings.TrimSpace(field)
			if tag == "" || tag == NoCharacterMarker {
				continue
			}
			if utf8.RuneCountInString(tag) != 1 {
				t.stats.InvalidEntries++
				continue
			}
			r, _ := utf8.DecodeRuneInString(tag)
			t.add(r, mapName)
		}
	}

	t.chars = make([]rune, 0, len(t.maps))
	for r := range t.maps {
		t.chars = append(t.chars, r)
	}
	slices.SortFunc(t.chars, Compare)

	return t
}

func (t *Table) add(r rune, mapName string) {
	set, ok := t.maps[r]
	if !ok {
		set = make(map[string]struct{})
		t.maps[r] = set
	}
	if _, dup := set[mapName]; !dup {
		set[mapName] = struct{}{}
		t.stats.Associations++
	}
}

// Len returns the number of distinct characters.
func (t *Table) Len() int { return len(t.chars) }

// Stats returns the counters collected during Build.
func (t *Table) Stats() BuildStats { return t.stats }

// Characters returns every known character in display order.
func (t *Table) Characters() []rune {
	return slices.Clone(t.chars)
}

// Has reports whether r is an exact key of the table.
func (t *Table) Has(r rune) bool {
	_, ok := t.maps[r]
	return ok
}

// Maps returns the sorted map names for an exact key, or nil.
func (t *Table) Maps(r rune) []string {
	set, ok := t.maps[r]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Resolve looks up one tag character. An exact key wins; an ASCII letter
// with no exact key falls back to its opposite case.
func (t *Table) Resolve(r rune) (Resolution, bool) {
	if t.Has(r) {
		return Resolution{Key: r, Maps: t.Maps(r)}, true
	}
	if alt, ok := swapASCIICase(r); ok && t.Has(alt) {
		return Resolution{Key: alt, Maps: t.Maps(alt)}, true
	}
	return Resolution{}, false
}

// Entries returns the reference table in display order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, len(t.chars))
	for i, r := range t.chars {
		entries[i] = Entry{Char: string(r), Maps: t.Maps(r)}
	}
	return entries
}

// Warnings describes rows and values Build had to ignore.
func (t *Table) Warnings() []string {
	var warnings []string
	if t.stats.InvalidRows > 0 {
		warnings = append(warnings, fmt.Sprintf("%d row(s) are missing a map name.", t.stats.InvalidRows))
	}
	if t.stats.InvalidEntries > 0 {
		warnings = append(warnings, fmt.Sprintf("Ignored %d tag value(s) that were not single characters.", t.stats.InvalidEntries))
	}
	return warnings
}

// Compare orders characters for display: ASCII letters first compared
// case-insensitively (uppercase before lowercase on ties), then ASCII digits
// by value, then everything else by code point.
func Compare(a, b rune) int {
	ca, cb := sortClass(a), sortClass(b)
	if ca != cb {
		return cmp.Compare(ca, cb)
	}
	if ca == classLetter {
		if c := cmp.Compare(asciiLower(a), asciiLower(b)); c != 0 {
			return c
		}
	}
	return cmp.Compare(a, b)
}

const (
	classLetter = iota
	classDigit
	classOther
)

func sortClass(r rune) int {
	switch {
	case isASCIILetter(r):
		return classLetter
	case r >= '0' && r <= '9':
		return classDigit
	default:
		return classOther
	}
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func asciiLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func swapASCIICase(r rune) (rune, bool) {
	switch {
	case r >= 'a' && r <= 'z':
		return r - ('a' - 'A'), true
	case r >= 'A' && r <= 'Z':
		return r + ('a' - 'A'), true
	}
	return 0, false
}
