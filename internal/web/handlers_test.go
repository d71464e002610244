package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/guildtag/internal/config"
	"github.com/JonMunkholm/guildtag/internal/core"
	"github.com/JonMunkholm/guildtag/internal/tabular"
)

const testCSV = "Map,Guild tag character\nAlpha,A\nBeta,A\nZeta,z\nNine,9\n"

func testConfig() *config.Config {
	return &config.Config{
		Server:   config.ServerConfig{RequestTimeout: 5 * time.Second},
		Session:  config.SessionConfig{CookieName: "guildtag_session", IdleTimeout: time.Hour, MaxSessions: 100},
		Security: config.SecurityConfig{EnableCSP: true},
	}
}

func newTestServer(t *testing.T, catalog *core.Catalog, mutate func(*config.Config)) *Server {
	t.Helper()
	cfg := testConfig()
	if mutate != nil {
		mutate(cfg)
	}
	srv := NewServer(catalog, cfg)
	t.Cleanup(srv.Close)
	return srv
}

func loadedServer(t *testing.T) *Server {
	t.Helper()
	table := core.Build(tabular.Parse(testCSV))
	return newTestServer(t, core.NewLoadedCatalog(table), nil)
}

func do(srv *Server, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	srv.Router().ServeHTTP(rec, req)
	return rec
}

// startSession loads the page once and returns the session cookie.
func startSession(t *testing.T, srv *Server) *http.Cookie {
	t.Helper()
	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	for _, c := range rec.Result().Cookies() {
		if c.Name == "guildtag_session" {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

func postForm(path string, form url.Values, cookie *http.Cookie, htmx bool) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	return req
}

func TestIndex_EmptyTag(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, core.EmptyTagMessage)
	assert.Contains(t, body, "0/6")
	assert.Contains(t, body, "3 characters")
	assert.Contains(t, body, `<td class="char">A</td><td>Alpha, Beta</td></tr>`)
	assert.Contains(t, body, `hx-post="/tag/append" hx-trigger="dblclick"`)
	assert.Contains(t, body, `hx-post="/tag" hx-trigger="input" hx-target="#results"`)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	csp := rec.Header().Get("Content-Security-Policy")
	assert.Contains(t, csp, "default-src 'self'")
	assert.Contains(t, csp, "script-src 'self' "+htmxOrigin)
	assert.Equal(t, 1, srv.Sessions().Len())
}

func TestSetTag_Partial(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	rec := do(srv, postForm("/tag", url.Values{"tag": {"Az9"}}, cookie, true))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `data-tag="Az9"`)
	assert.Contains(t, body, "3/6")
	assert.Contains(t, body, "A → Alpha, Beta")
	assert.Contains(t, body, "z → Zeta")
	assert.Contains(t, body, "9 → Nine")
	assert.NotContains(t, body, "<!doctype html>")
	assert.NotContains(t, body, "hx-swap-oob", "typing never replaces the input")

	// The tag survives a reload
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookie)
	page := do(srv, req)
	assert.Contains(t, page.Body.String(), `value="Az9"`)
	assert.Equal(t, 1, srv.Sessions().Len())
}

func TestSetTag_TruncatesAndStripsNewlines(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	rec := do(srv, postForm("/tag", url.Values{"tag": {"AB\r\nCDEFGH"}}, cookie, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-tag="ABCDEF"`)
	assert.Contains(t, rec.Body.String(), "6/6")
}

func TestSetTag_UnknownCharacters(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	rec := do(srv, postForm("/tag", url.Values{"tag": {"q!q"}}, cookie, true))

	body := rec.Body.String()
	assert.Contains(t, body, "Unknown character(s): !, q")
	assert.Contains(t, body, "q → No map found")
}

func TestSetTag_FormPostRedirects(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	rec := do(srv, postForm("/tag", url.Values{"tag": {"A"}}, cookie, false))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
}

func TestAppendTag(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	do(srv, postForm("/tag", url.Values{"tag": {"Az"}}, cookie, true))
	rec := do(srv, postForm("/tag/append", url.Values{"char": {"9"}}, cookie, true))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-tag="Az9"`)
	assert.Contains(t, rec.Body.String(), `value="Az9"`)
	assert.Contains(t, rec.Body.String(), `hx-swap-oob="true"`)

	do(srv, postForm("/tag", url.Values{"tag": {"AAAAAA"}}, cookie, true))
	rec = do(srv, postForm("/tag/append", url.Values{"char": {"z"}}, cookie, true))
	assert.Contains(t, rec.Body.String(), `data-tag="AAAAAA"`, "full tag is left unchanged")
}

func TestAppendTag_UsesTagShownInInput(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	// A slower keystroke request left an older tag in the session.
	do(srv, postForm("/tag", url.Values{"tag": {"A"}}, cookie, true))

	rec := do(srv, postForm("/tag/append", url.Values{"tag": {"Az"}, "char": {"9"}}, cookie, true))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `data-tag="Az9"`)
	sess, ok := srv.Sessions().Get(cookie.Value)
	require.True(t, ok)
	assert.Equal(t, "Az9", sess.Tag)
}

func TestAppendTag_FormPostRedirects(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	rec := do(srv, postForm("/tag/append", url.Values{"char": {"z"}}, cookie, false))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	sess, _ := srv.Sessions().Get(cookie.Value)
	assert.Equal(t, "z", sess.Tag)
}

func TestAppendTag_EmptyChar(t *testing.T) {
	srv := loadedServer(t)
	cookie := startSession(t, srv)

	rec := do(srv, postForm("/tag/append", url.Values{"char": {""}}, cookie, true))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "TAG001")
}

func TestUnknownSessionCookieStartsNewSession(t *testing.T) {
	srv := loadedServer(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "guildtag_session", Value: "stale"})
	rec := do(srv, req)

	require.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.NotEqual(t, "stale", cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)
}

func TestAPILookup(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/lookup?tag=Aq", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var view core.TagView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "Aq", view.Tag)
	assert.Equal(t, 2, view.Length)
	require.Len(t, view.Results, 2)
	assert.Equal(t, []string{"Alpha", "Beta"}, view.Results[0].Maps)
	assert.False(t, view.Results[1].Found)
	assert.Equal(t, []string{"q"}, view.Unknown)
	assert.Equal(t, "Unknown character(s): q", view.Status)
	assert.Equal(t, 0, srv.Sessions().Len(), "API calls do not create sessions")
}

func TestAPICharacters(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/characters", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp CharactersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Total)
	assert.Equal(t, []core.Entry{
		{Char: "A", Maps: []string{"Alpha", "Beta"}},
		{Char: "z", Maps: []string{"Zeta"}},
		{Char: "9", Maps: []string{"Nine"}},
	}, resp.Characters)
	assert.Empty(t, resp.Warnings)
}

func TestAPIExport(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/api/export", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "guild-tag-characters.csv")
	assert.Equal(t, "Character,Maps\nA,Alpha; Beta\nz,Zeta\n9,Nine\n", rec.Body.String())
}

func TestHealth_Loaded(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, 3, resp.Characters)
}

func TestStillLoading(t *testing.T) {
	srv := newTestServer(t, core.NewCatalog("maps.csv", core.LoadOptions{}), nil)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "Loading map data")
	assert.NotContains(t, rec.Body.String(), "tagInput")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/api/lookup?tag=A", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "LOAD006", errResp.Code)

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"loading"`)
}

func TestLoadFailure(t *testing.T) {
	catalog := core.NewCatalog(filepath.Join(t.TempDir(), "absent.csv"), core.LoadOptions{MaxBytes: 1024})
	require.Error(t, catalog.Load(context.Background()))
	srv := newTestServer(t, catalog, nil)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, core.LoadFailureMessage)
	assert.NotContains(t, body, "tagInput")
	assert.NotContains(t, body, "characterTable")

	rec = do(srv, postForm("/tag", url.Values{"tag": {"A"}}, nil, true))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "LOAD001")

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/api/characters", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var errResp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "LOAD001", errResp.Code)

	rec = do(srv, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	var health HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &health))
	assert.Equal(t, "error", health.Status)
	assert.Equal(t, "LOAD001", health.Code)
}

func TestStaticAssets(t *testing.T) {
	srv := loadedServer(t)

	rec := do(srv, httptest.NewRequest(http.MethodGet, "/static/style.css", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
