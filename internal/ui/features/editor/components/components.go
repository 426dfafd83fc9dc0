// Package components renders the editor views.
package components

import (
	"embed"
	"encoding/json"
	"html/template"

	"github.com/a-h/templ"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/leapstack-labs/codepad/internal/session"
	"github.com/leapstack-labs/codepad/internal/ui/resources"
)

//go:embed templates/*.html
var templateFS embed.FS

var templates = template.Must(
	template.New("components").
		Funcs(template.FuncMap{
			"static":   resources.StaticPath,
			"datastar": func() string { return resources.DatastarScript },
		}).
		ParseFS(templateFS, "templates/*.html"),
)

// ViewData is everything the editor app view needs.
type ViewData struct {
	Snapshot  session.Snapshot
	Languages []language.Config
	// Highlighted is the chroma rendering of the current source.
	Highlighted template.HTML
}

// Base returns the URL prefix of the session's endpoints.
func (v ViewData) Base() string {
	return "/s/" + v.Snapshot.ID
}

// PageData wraps the app view in a full HTML document.
type PageData struct {
	Title string
	IsDev bool
	View  ViewData
}

// Signals returns the initial datastar signals as JSON.
func (p PageData) Signals() string {
	b, err := json.Marshal(map[string]any{
		"code":        p.View.Snapshot.Source,
		"prefersDark": p.View.Snapshot.Dark,
	})
	if err != nil {
		return "{}"
	}
	return string(b)
}

// Page renders the full editor document.
func Page(data PageData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("page"), data)
}

// App renders the #app element; patching it refreshes the whole editor.
func App(data ViewData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("app"), data)
}

// Preview renders the #preview element holding the highlighted source.
func Preview(data ViewData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("preview"), data)
}

// Output renders the #output element.
func Output(data ViewData) templ.Component {
	return templ.FromGoHTML(templates.Lookup("output"), data)
}
