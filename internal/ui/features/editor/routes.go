package editor

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/codepad/internal/session"
	"github.com/leapstack-labs/codepad/internal/ui/notifier"
)

// SetupRoutes configures routes for the editor feature.
func SetupRoutes(
	router chi.Router,
	store *session.Store,
	exec session.Executor,
	cookies sessions.Store,
	notify *notifier.Notifier,
	logger *slog.Logger,
	isDev bool,
) error {
	handlers := NewHandlers(store, exec, cookies, notify, logger, isDev)

	router.Get("/", handlers.EditorPage)
	router.Route("/s/{sid}", func(r chi.Router) {
		r.Get("/updates", handlers.EditorUpdates)
		r.Post("/language/{tag}", handlers.SelectLanguageSSE)
		r.Post("/source", handlers.EditSourceSSE)
		r.Post("/run", handlers.RunSSE)
		r.Post("/clear", handlers.ClearOutputSSE)
		r.Post("/theme/toggle", handlers.ToggleThemeSSE)
		r.Post("/theme/detect", handlers.DetectThemeSSE)
		r.Post("/notice/dismiss", handlers.DismissNoticeSSE)
	})

	return nil
}
