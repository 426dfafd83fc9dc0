// Package router sets up HTTP routes for the UI server.
package router

import (
	"log/slog"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/codepad/internal/session"
	editorFeature "github.com/leapstack-labs/codepad/internal/ui/features/editor"
	"github.com/leapstack-labs/codepad/internal/ui/notifier"
	"github.com/leapstack-labs/codepad/internal/ui/resources"
	"github.com/starfederation/datastar-go/datastar"
)

// Deps are the collaborators shared by all features.
type Deps struct {
	Sessions *session.Store
	Executor session.Executor
	Cookies  sessions.Store
	Notifier *notifier.Notifier
	Logger   *slog.Logger
	IsDev    bool
}

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps Deps) error {
	// Hot reload endpoint for dev mode
	if deps.IsDev {
		setupReload(router, deps.Notifier)
	}

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	// Static assets
	router.Handle("/static/*", resources.Handler())

	return editorFeature.SetupRoutes(
		router,
		deps.Sessions,
		deps.Executor,
		deps.Cookies,
		deps.Notifier,
		deps.Logger,
		deps.IsDev,
	)
}

// setupReload reloads connected pages whenever the static files change. The
// first connection after a server restart reloads immediately so a rebuilt
// binary is picked up.
func setupReload(router chi.Router, notify *notifier.Notifier) {
	var hotReloadOnce sync.Once

	router.Get("/reload", func(w http.ResponseWriter, r *http.Request) {
		changes := notify.Subscribe(notifier.ReloadTopic)
		defer notify.Unsubscribe(changes)

		sse := datastar.NewSSE(w, r)
		reload := func() { _ = sse.ExecuteScript("window.location.reload()") }
		hotReloadOnce.Do(reload)
		select {
		case <-changes:
			reload()
		case <-r.Context().Done():
		}
	})

	// Called by external rebuild scripts; pings every open stream.
	router.Get("/hotreload", func(w http.ResponseWriter, _ *http.Request) {
		notify.Broadcast()
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
}
