//go:build dev

package resources

import (
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"runtime"
)

// Dir returns the directory static assets are served from. The dev server
// watches it to reload open pages when a stylesheet or icon changes.
func Dir() string {
	// runtime.Caller(0) returns the path to this specific file (static_dev.go)
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return StaticDirectoryPath
	}
	return filepath.Join(filepath.Dir(filename), "static")
}

// Handler returns an HTTP handler for serving static files.
// In dev mode, files are served directly from the filesystem.
func Handler() http.Handler {
	staticDir := Dir()
	slog.Info("static assets served from filesystem", "path", staticDir)

	fileServer := http.StripPrefix("/static/", http.FileServer(http.FS(os.DirFS(staticDir))))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-cache")
		fileServer.ServeHTTP(w, r)
	})
}
