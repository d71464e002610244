package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/guildtag/internal/core"
	"github.com/JonMunkholm/guildtag/internal/logging"
	"github.com/JonMunkholm/guildtag/internal/tabular"
	"github.com/JonMunkholm/guildtag/internal/web/templates"
)

// sessionMiddleware attaches the lookup session to the request, creating
// one (and its cookie) when the browser has none.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var sess Session
		found := false
		if c, err := r.Cookie(s.cfg.Session.CookieName); err == nil {
			sess, found = s.sessions.Get(c.Value)
		}
		if !found {
			sess = s.sessions.Create()
			http.SetCookie(w, &http.Cookie{
				Name:     s.cfg.Session.CookieName,
				Value:    sess.ID,
				Path:     "/",
				HttpOnly: true,
				Secure:   s.cfg.Session.SecureCookie,
				SameSite: http.SameSiteLaxMode,
			})
		}

		ctx := WithRequestMetadata(r.Context(), r, sess.ID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// currentTag returns the tag stored for the request's session.
func (s *Server) currentTag(r *http.Request) string {
	sess, _ := s.sessions.Get(core.GetSessionIDFromContext(r.Context()))
	return sess.Tag
}

// table returns the loaded table. When it is not available it writes the
// loading or failure response and returns false.
func (s *Server) table(w http.ResponseWriter, r *http.Request) (*core.Table, bool) {
	t, err := s.catalog.Table()
	if err == nil {
		return t, true
	}

	if errors.Is(err, core.ErrNotLoaded) {
		if wantsJSON(r) {
			s.respondError(w, r, err, http.StatusServiceUnavailable)
			return nil, false
		}
		w.Header().Set("Retry-After", "2")
		render(w, r, http.StatusServiceUnavailable, templates.Loading())
		return nil, false
	}

	if wantsJSON(r) || isHTMX(r) {
		s.respondError(w, r, err, http.StatusServiceUnavailable)
		return nil, false
	}
	render(w, r, http.StatusServiceUnavailable, templates.LoadFailure(core.LoadFailureMessage))
	return nil, false
}

// render writes c as HTML with the given status.
func render(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render failed", "error", err)
	}
}

// handleIndex renders the lookup page for the session's current tag.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}

	render(w, r, http.StatusOK, templates.Page(templates.PageData{
		View:     table.Lookup(s.currentTag(r)),
		Entries:  table.Entries(),
		Warnings: table.Warnings(),
	}))
}

// handleSetTag replaces the session's tag with the submitted text.
func (s *Server) handleSetTag(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	tag := core.NormalizeTag(r.PostForm.Get("tag"))
	s.sessions.SetTag(core.GetSessionIDFromContext(r.Context()), tag)
	logging.WithFields(r.Context(), "tag", tag).Debug("tag updated")

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, templates.Results(table.Lookup(tag)))
}

// handleAppendTag appends one character, picked from the character table,
// to the tag. The page sends the tag as shown in the input alongside the
// character; without it the session's tag is extended.
func (s *Server) handleAppendTag(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	ch := r.PostForm.Get("char")
	if ch == "" {
		s.respondError(w, r, errors.New("empty character"), http.StatusBadRequest)
		return
	}

	shown, hasShown := r.PostForm["tag"]
	tag, _ := s.sessions.Update(core.GetSessionIDFromContext(r.Context()), func(current string) string {
		if hasShown {
			current = core.NormalizeTag(shown[0])
		}
		return core.AppendToTag(current, ch)
	})
	logging.WithFields(r.Context(), "tag", tag, "appended", ch).Debug("tag updated")

	if !isHTMX(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	render(w, r, http.StatusOK, templates.AppendResults(table.Lookup(tag)))
}

// handleLookup resolves the tag query parameter as JSON.
func (s *Server) handleLookup(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, table.Lookup(r.URL.Query().Get("tag")))
}

// CharactersResponse lists every known character.
type CharactersResponse struct {
	Total      int          `json:"total"`
	Characters []core.Entry `json:"characters"`
	Warnings   []string     `json:"warnings"`
}

// handleCharacters returns the character table as JSON.
func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}

	entries := table.Entries()
	warnings := table.Warnings()
	if warnings == nil {
		warnings = []string{}
	}
	writeJSON(w, http.StatusOK, CharactersResponse{
		Total:      len(entries),
		Characters: entries,
		Warnings:   warnings,
	})
}

// handleExport downloads the character table as CSV, one row per character
// with its maps joined.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	table, ok := s.table(w, r)
	if !ok {
		return
	}

	entries := table.Entries()
	rows := make([]tabular.Row, 0, len(entries)+1)
	rows = append(rows, tabular.Row{"Character", "Maps"})
	for _, e := range entries {
		rows = append(rows, tabular.Row{e.Char, strings.Join(e.Maps, "; ")})
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="guild-tag-characters.csv"`)
	if err := tabular.Write(w, rows); err != nil {
		logging.FromContext(r.Context()).Error("export failed", "error", err)
	}
}

// HealthResponse reports whether the data file is loaded.
type HealthResponse struct {
	Status     string `json:"status"`
	Source     string `json:"source"`
	Characters int    `json:"characters"`
	Code       string `json:"code,omitempty"`
}

// handleHealth reports load state: 200 once loaded, 503 while loading or
// after a failed load.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Source: s.catalog.Source()}

	table, err := s.catalog.Table()
	switch {
	case err == nil:
		resp.Status = "ok"
		resp.Characters = table.Len()
		writeJSON(w, http.StatusOK, resp)
	case errors.Is(err, core.ErrNotLoaded):
		resp.Status = "loading"
		writeJSON(w, http.StatusServiceUnavailable, resp)
	default:
		resp.Status = "error"
		resp.Code = core.MapError(err).Code
		writeJSON(w, http.StatusServiceUnavailable, resp)
	}
}
