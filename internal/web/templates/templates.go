// Package templates renders the lookup UI. Components live in the .templ
// files; run `templ generate` after editing them.
package templates

import (
	"encoding/json"
	"strconv"

	"github.com/JonMunkholm/guildtag/internal/core"
)

// Title is the document title of every page.
const Title = core.AppName

// PageData is what the lookup page shows.
type PageData struct {
	View     core.TagView
	Entries  []core.Entry
	Warnings []string
}

func characterCount(n int) string {
	if n == 1 {
		return "1 character"
	}
	return strconv.Itoa(n) + " characters"
}

// appendValues is the hx-vals payload that appends char to the tag.
func appendValues(char string) string {
	b, _ := json.Marshal(map[string]string{"char": char})
	return string(b)
}
