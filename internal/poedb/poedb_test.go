package poedb

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/guildtag/internal/core"
	"github.com/JonMunkholm/guildtag/internal/tabular"
)

const samplePage = `<html><body>
<table>
<tr><td><a class="itemclass_map Map" href="/us/Academy_Map">Academy Map</a></td>
<td><div>Guild Tag Editor: <span class="colourDefault">A</span></div></td></tr>
<tr><td><a class="itemclass_map Map" href="/us/Arcade_Map">Arcade Map</a></td>
<td><div>Guild Tag Editor:<span class="colourDefault">&amp;</span></div></td></tr>
<tr><td><a class="itemclass_map Map" href="/us/Academy_Map">Academy Map</a></td>
<td><div>Guild Tag Editor: <span class="colourDefault">Z</span></div></td></tr>
<tr><td><a class="itemclass_gem" href="/us/Fireball">Fireball</a></td>
<td><span class="colourDefault">F</span></td></tr>
<tr><td><a class="itemclass_map Map" href="/us/Bazaar_Map">Bazaar Map</a></td>
<td><div>Guild Tag Editor: <span class="colourDefault">b</span></div></td></tr>
</table>
</body></html>`

func TestParse(t *testing.T) {
	res, err := Parse(strings.NewReader(samplePage))
	require.NoError(t, err)

	want := map[string]string{
		"Academy Map": "A",
		"Arcade Map":  "&",
		"Bazaar Map":  "b",
	}
	if diff := cmp.Diff(want, res.Entries); diff != "" {
		t.Errorf("entries mismatch (-want +got):\n%s", diff)
	}

	assert.Equal(t, []Conflict{{Map: "Academy Map", Existing: "A", Ignored: "Z"}}, res.Conflicts)
}

func TestParse_SpanWithoutLabelIgnored(t *testing.T) {
	page := `<a class="itemclass_map Map">Cells Map</a><span class="colourDefault">C</span>`

	_, err := Parse(strings.NewReader(page))
	assert.ErrorIs(t, err, ErrNoEntries)
	assert.Equal(t, "SCR001", core.MapError(err).Code)
}

func TestParse_EmptyPage(t *testing.T) {
	_, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNoEntries)
}

func TestWriteCSV_LoadsBack(t *testing.T) {
	entries := map[string]string{"Bazaar Map": "b", "Academy Map": "A", "Arcade, Old": "&"}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, entries))

	rows := tabular.Parse(buf.String())
	assert.Equal(t, []tabular.Row{
		Header,
		{"Academy Map", "A"},
		{"Arcade, Old", "&"},
		{"Bazaar Map", "b"},
	}, rows)

	table := core.Build(rows)
	assert.Equal(t, []rune{'A', 'b', '&'}, table.Characters())
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/gone" {
			w.WriteHeader(http.StatusGone)
			return
		}
		assert.Equal(t, "tester/1.0", r.UserAgent())
		io.WriteString(w, samplePage)
	}))
	defer srv.Close()

	body, err := Fetch(context.Background(), srv.Client(), srv.URL+"/maps", "tester/1.0")
	require.NoError(t, err)
	defer body.Close()

	res, err := Parse(body)
	require.NoError(t, err)
	assert.Len(t, res.Entries, 3)

	_, err = Fetch(context.Background(), srv.Client(), srv.URL+"/gone", "tester/1.0")
	require.Error(t, err)
	assert.Equal(t, "LOAD003", core.MapError(err).Code)
}
