// Package ui provides the browser front end of codepad.
package ui

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/leapstack-labs/codepad/internal/session"
	"github.com/leapstack-labs/codepad/internal/ui/notifier"
	"github.com/leapstack-labs/codepad/internal/ui/resources"
	"github.com/leapstack-labs/codepad/internal/ui/router"
	"golang.org/x/sync/errgroup"
)

// Server is the main UI server.
type Server struct {
	sessions      *session.Store
	executor      session.Executor
	sessionStore  *sessions.CookieStore
	port          int
	dev           bool
	sweepInterval time.Duration
	logger        *slog.Logger
	notifier      *notifier.Notifier
}

// Config holds configuration for the UI server.
type Config struct {
	Executor        session.Executor
	Port            int
	Dev             bool
	SessionSecret   string
	SessionTTL      time.Duration
	SweepInterval   time.Duration
	DefaultLanguage language.Tag
	Logger          *slog.Logger
}

// NewServer creates a new UI server instance.
func NewServer(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = time.Minute
	}

	sessionStore := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	sessionStore.MaxAge(86400 * 30) // 30 days
	sessionStore.Options.Path = "/"
	sessionStore.Options.HttpOnly = true
	sessionStore.Options.SameSite = http.SameSiteLaxMode

	return &Server{
		sessions: session.NewStore(session.StoreConfig{
			TTL:             cfg.SessionTTL,
			DefaultLanguage: cfg.DefaultLanguage,
			Logger:          cfg.Logger,
		}),
		executor:      cfg.Executor,
		sessionStore:  sessionStore,
		port:          cfg.Port,
		dev:           cfg.Dev,
		sweepInterval: cfg.SweepInterval,
		logger:        cfg.Logger,
		notifier:      notifier.New(),
	}
}

// Handler builds the HTTP handler serving the editor.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	err := router.SetupRoutes(r, router.Deps{
		Sessions: s.sessions,
		Executor: s.executor,
		Cookies:  s.sessionStore,
		Notifier: s.notifier,
		Logger:   s.logger,
		IsDev:    s.dev,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve starts the UI server and blocks until the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", s.port))
	if err != nil {
		return fmt.Errorf("failed to listen: %w", err)
	}
	return s.serve(ctx, ln)
}

func (s *Server) serve(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	s.logger.Info("starting UI server", "addr", "http://"+displayAddr(ln.Addr()), "dev", s.dev)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	eg.Go(func() error {
		return s.sessions.RunSweeper(egctx, s.sweepInterval)
	})

	// Reload open pages when static assets change
	if s.dev && resources.Dir() != "" {
		eg.Go(func() error {
			return s.watchFiles(egctx, resources.Dir())
		})
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Debug("shutting down UI server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// IsDev returns true if running in development mode.
func (s *Server) IsDev() bool {
	return s.dev
}

// Notifier returns the server's notifier for SSE updates.
func (s *Server) Notifier() *notifier.Notifier {
	return s.notifier
}

// Sessions returns the store of open editor pages.
func (s *Server) Sessions() *session.Store {
	return s.sessions
}

// watchFiles watches the static directory and reloads open pages on change.
func (s *Server) watchFiles(ctx context.Context, dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		s.logger.Error("failed to watch static directory", "path", dir, "error", err)
		// Don't fail - continue without watching
	}
	if err := watcher.Add(filepath.Join(dir, "icons")); err != nil {
		s.logger.Debug("icons directory not watched", "error", err)
	}

	// Debounce timer
	var debounceTimer *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(100*time.Millisecond, func() {
				s.logger.Debug("static asset changed, reloading pages", "file", event.Name)
				s.notifier.Publish(notifier.ReloadTopic)
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Error("watcher error", "error", err)
		}
	}
}

// displayAddr turns a wildcard listen address into one a browser can open.
func displayAddr(addr net.Addr) string {
	if tcp, ok := addr.(*net.TCPAddr); ok && tcp.IP.IsUnspecified() {
		return fmt.Sprintf("localhost:%d", tcp.Port)
	}
	return addr.String()
}
