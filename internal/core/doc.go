// Package core provides the business logic for guild tag lookups.
//
// The package holds the character-to-map association table and everything
// that queries it, independent of any UI. The web server, the terminal UI
// and the CLI all work against the same types.
//
// # Table
//
// A [Table] is built once from the parsed data file with [Build] and is
// immutable afterwards:
//
//	rows := tabular.Parse(text)
//	table := core.Build(rows)
//	view := table.Lookup("Az9")
//
// The first row of the file is a header. Every other row is a map name
// followed by the characters it grants. [NoCharacterMarker] and values longer
// than one character are ignored.
//
// # Lookup
//
// [Table.Resolve] answers a single character: an exact key first, then the
// opposite case for ASCII letters. [Table.Lookup] runs Resolve over every
// character of a tag (at most [MaxTagLength]) and collects the characters
// that have no map.
//
// # Loading
//
// [Load] reads a local file or an http(s) URL exactly once. [Catalog] wraps
// the one asynchronous startup load for the web server: readers see
// [ErrNotLoaded] until it completes and then the table or the load error
// for the rest of the process.
//
// # Error Handling
//
// Technical errors are mapped to user-friendly messages using [MapError].
// Each error category has a unique code for support reference:
//
//   - LOAD001-LOAD007: Data file errors (missing, download, size, empty)
//   - TAG001: Tag editing errors
//   - SCR001: Data file generation errors
//   - UPL004-UPL005: Request cancelled or timed out
//   - RATE001: Rate limited
package core
