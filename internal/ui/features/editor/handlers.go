package editor

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/leapstack-labs/codepad/internal/session"
	"github.com/leapstack-labs/codepad/internal/ui/features/editor/components"
	"github.com/leapstack-labs/codepad/internal/ui/notifier"
	"github.com/starfederation/datastar-go/datastar"
)

// Handlers provides HTTP handlers for the editor feature.
type Handlers struct {
	sessions *session.Store
	executor session.Executor
	cookies  sessions.Store
	notifier *notifier.Notifier
	logger   *slog.Logger
	isDev    bool
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(
	store *session.Store,
	exec session.Executor,
	cookies sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{
		sessions: store,
		executor: exec,
		cookies:  cookies,
		notifier: notify,
		logger:   logger,
		isDev:    isDev,
	}
}

// EditorPage renders the editor. Every page load starts a fresh session.
func (h *Handlers) EditorPage(w http.ResponseWriter, r *http.Request) {
	owner, err := h.clientID(w, r, true)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	s := h.sessions.Create(owner)

	w.Header().Set("Accept-CH", colorSchemeHint)
	w.Header().Add("Vary", colorSchemeHint)
	if hint := strings.Trim(r.Header.Get(colorSchemeHint), `"`); hint != "" {
		s.DetectTheme(hint == "dark")
	}

	data := components.PageData{
		Title: "Online Code Editor",
		IsDev: h.isDev,
		View:  h.viewData(s.Snapshot()),
	}
	if err := components.Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// EditorUpdates is the long-lived SSE endpoint of an editor page. It pushes
// the app view whenever a run of the session changes state, so results land
// even if the stream that started the run was dropped.
func (h *Handlers) EditorUpdates(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	sse := datastar.NewSSE(w, r)

	updates := h.notifier.Subscribe(s.ID())
	defer h.notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-updates:
			if err := h.patchApp(sse, s); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}

// SelectLanguageSSE switches language, replacing the buffer with the sample
// program of the new language.
func (h *Handlers) SelectLanguageSSE(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	tag, err := language.ParseTag(chi.URLParam(r, "tag"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if err := s.SelectLanguage(tag); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	sse := datastar.NewSSE(w, r)
	snap := s.Snapshot()
	if err := sse.MarshalAndPatchSignals(map[string]any{"code": snap.Source}); err != nil {
		_ = sse.ConsoleError(err)
		return
	}
	if err := sse.PatchElementTempl(components.App(h.viewData(snap))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// EditSourceSSE stores the buffer and refreshes the highlighted preview.
func (h *Handlers) EditSourceSSE(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	// Read signals BEFORE creating SSE (SSE consumes the request body)
	var signals EditorSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}
	if signals.Code != nil {
		s.EditSource(*signals.Code)
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Preview(h.viewData(s.Snapshot()))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// RunSSE sends the buffer to the execution service and streams the running
// and finished views. A run already in flight makes this a no-op.
func (h *Handlers) RunSSE(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var signals EditorSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		h.logger.Debug("run without signals", "session", s.ID(), "error", err)
	} else if signals.Code != nil {
		s.EditSource(*signals.Code)
	}

	sse := datastar.NewSSE(w, r)

	ticket, started := s.BeginRun()
	if !started {
		h.logger.Debug("run rejected, another run is in flight", "session", s.ID())
		if err := h.patchApp(sse, s); err != nil {
			_ = sse.ConsoleError(err)
		}
		return
	}

	h.notifier.Publish(s.ID())
	if err := h.patchApp(sse, s); err != nil {
		_ = sse.ConsoleError(err)
	}

	// The run is not cancelled when the browser goes away; its result is
	// delivered through the updates stream instead.
	ctx := context.WithoutCancel(r.Context())
	res, err := h.executor.Execute(ctx, ticket.Language, ticket.Source)
	applied := s.FinishRun(ticket, res, err)

	h.logger.Info("run finished",
		"session", s.ID(),
		"language", ticket.Language.String(),
		"generation", ticket.Generation,
		"is_error", res.IsError,
		"transport_error", err != nil,
		"applied", applied,
	)

	h.notifier.Publish(s.ID())
	if err := h.patchApp(sse, s); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ClearOutputSSE empties the output pane.
func (h *Handlers) ClearOutputSSE(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	s.ClearOutput()

	sse := datastar.NewSSE(w, r)
	if err := sse.PatchElementTempl(components.Output(h.viewData(s.Snapshot()))); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// ToggleThemeSSE flips between dark and light mode.
func (h *Handlers) ToggleThemeSSE(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*session.Session).ToggleTheme)
}

// DismissNoticeSSE hides the first-visit notice.
func (h *Handlers) DismissNoticeSSE(w http.ResponseWriter, r *http.Request) {
	h.mutate(w, r, (*session.Session).DismissNotice)
}

// DetectThemeSSE applies the browser's prefers-color-scheme, once.
func (h *Handlers) DetectThemeSSE(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var signals EditorSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "failed to read signals: "+err.Error(), http.StatusBadRequest)
		return
	}

	sse := datastar.NewSSE(w, r)
	if signals.PrefersDark == nil || !s.DetectTheme(*signals.PrefersDark) {
		return
	}
	if err := h.patchApp(sse, s); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// mutate applies a transition to the session and sends the new app view.
func (h *Handlers) mutate(w http.ResponseWriter, r *http.Request, transition func(*session.Session)) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	transition(s)

	sse := datastar.NewSSE(w, r)
	if err := h.patchApp(sse, s); err != nil {
		_ = sse.ConsoleError(err)
	}
}

func (h *Handlers) patchApp(sse *datastar.ServerSentEventGenerator, s *session.Session) error {
	return sse.PatchElementTempl(components.App(h.viewData(s.Snapshot())))
}

// viewData assembles all data needed for the editor view.
func (h *Handlers) viewData(snap session.Snapshot) components.ViewData {
	var buf bytes.Buffer
	var highlighted template.HTML
	if err := snap.Language.Highlight(&buf, snap.Source, snap.Dark); err != nil {
		h.logger.Warn("highlight failed", "language", snap.Language.Tag.String(), "error", err)
		highlighted = template.HTML("<pre>" + template.HTMLEscapeString(snap.Source) + "</pre>") //nolint:gosec
	} else {
		highlighted = template.HTML(buf.String()) //nolint:gosec // chroma escapes the source
	}

	return components.ViewData{
		Snapshot:    snap,
		Languages:   language.All(),
		Highlighted: highlighted,
	}
}

// session resolves the page session named in the URL. It answers 410 Gone
// when the session expired or belongs to another browser; the page must be
// reloaded to get a new one.
func (h *Handlers) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	owner, err := h.clientID(w, r, false)
	if err == nil {
		var s *session.Session
		if s, err = h.sessions.Get(chi.URLParam(r, "sid"), owner); err == nil {
			return s, true
		}
	}

	if errors.Is(err, session.ErrNotFound) {
		http.Error(w, "editor session expired, reload the page", http.StatusGone)
	} else {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
	return nil, false
}

// clientID returns the browser's id from the session cookie, minting one if
// create is set.
func (h *Handlers) clientID(w http.ResponseWriter, r *http.Request, create bool) (string, error) {
	cookie, err := h.cookies.Get(r, cookieName)
	if err != nil {
		h.logger.Debug("discarding unreadable session cookie", "error", err)
	}

	if id, ok := cookie.Values[clientIDKey].(string); ok && id != "" {
		return id, nil
	}
	if !create {
		return "", session.ErrNotFound
	}

	id := uuid.NewString()
	cookie.Values[clientIDKey] = id
	if err := cookie.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}
