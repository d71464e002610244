package core

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// AppName is the display name used by every front end.
const AppName = "Guild Tag Map Helper"

// MaxTagLength is the longest guild tag the game accepts, in characters.
const MaxTagLength = 6

// EmptyTagMessage is shown while no tag has been entered.
const EmptyTagMessage = "Enter 1-6 characters to see required maps."

// CharResult is the lookup outcome for one character of a tag.
type CharResult struct {
	Position int      `json:"position"` // 1-based
	Char     string   `json:"char"`
	Key      string   `json:"key,omitempty"` // table key used, set when Found
	Maps     []string `json:"maps"`
	Found    bool     `json:"found"`
}

// String renders the result as a single display line.
func (c CharResult) String() string {
	if !c.Found {
		return c.Char + " → No map found"
	}
	return c.Char + " → " + strings.Join(c.Maps, ", ")
}

// TagView is everything needed to display the result of a tag lookup.
type TagView struct {
	Tag     string       `json:"tag"`
	Length  int          `json:"length"`
	Max     int          `json:"max"`
	Results []CharResult `json:"results"`
	Unknown []string     `json:"unknown"`
	Status  string       `json:"status"`
}

// Counter renders the "n/6" length indicator.
func (v TagView) Counter() string {
	return fmt.Sprintf("%d/%d", v.Length, v.Max)
}

// NormalizeTag removes line breaks and keeps at most MaxTagLength characters.
func NormalizeTag(tag string) string {
	tag = strings.NewReplacer("\r", "", "\n", "").Replace(tag)
	if utf8.RuneCountInString(tag) <= MaxTagLength {
		return tag
	}
	n := 0
	for i := range tag {
		if n == MaxTagLength {
			return tag[:i]
		}
		n++
	}
	return tag
}

// AppendToTag adds ch to the end of tag unless ch is empty or tag is
// already full.
func AppendToTag(tag, ch string) string {
	if ch == "" {
		return tag
	}
	if utf8.RuneCountInString(tag) >= MaxTagLength {
		return tag
	}
	return NormalizeTag(tag + ch)
}

// Lookup resolves every character of tag independently. The tag is
// normalized first, so the view always reflects what would be shown in the
// input field.
func (t *Table) Lookup(tag string) TagView {
	tag = NormalizeTag(tag)
	view := TagView{
		Tag:     tag,
		Length:  utf8.RuneCountInString(tag),
		Max:     MaxTagLength,
		Results: []CharResult{},
		Unknown: []string{},
	}

	if tag == "" {
		view.Status = EmptyTagMessage
		return view
	}

	seen := make(map[string]bool)
	pos := 0
	for _, r := range tag {
		pos++
		res := CharResult{Position: pos, Char: string(r), Maps: []string{}}
		if hit, ok := t.Resolve(r); ok {
			res.Found = true
			res.Key = string(hit.Key)
			res.Maps = hit.Maps
		} else if !seen[res.Char] {
			seen[res.Char] = true
			view.Unknown = append(view.Unknown, res.Char)
		}
		view.Results = append(view.Results, res)
	}

	if len(view.Unknown) > 0 {
		slices.Sort(view.Unknown)
		view.Status = "Unknown character(s): " + strings.Join(view.Unknown, ", ")
	}

	return view
}
