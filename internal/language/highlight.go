package language

import (
	"fmt"
	"io"
	"sync"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/formatters"
	"github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
)

// Chroma styles matching the editor's dark and light themes.
const (
	DarkStyle  = "onedark"
	LightStyle = "github"
)

var (
	lexerOnce  [numTags]sync.Once
	lexerCache [numTags]chroma.Lexer

	htmlFormatter = html.New(
		html.WithLineNumbers(true),
		html.TabWidth(4),
	)
)

// Lexer returns the chroma lexer for the language, resolving it on first use.
// Languages chroma does not know fall back to plain text.
func (c Config) Lexer() chroma.Lexer {
	lexerOnce[c.Tag].Do(func() {
		l := lexers.Get(c.Highlighter)
		if l == nil {
			l = lexers.Fallback
		}
		lexerCache[c.Tag] = chroma.Coalesce(l)
	})
	return lexerCache[c.Tag]
}

// Highlight writes source as highlighted HTML in the given theme.
func (c Config) Highlight(w io.Writer, source string, dark bool) error {
	return c.format(w, htmlFormatter, source, dark)
}

// HighlightTerminal writes source highlighted with 256-colour ANSI escapes.
func (c Config) HighlightTerminal(w io.Writer, source string, dark bool) error {
	f := formatters.Get("terminal256")
	if f == nil {
		f = formatters.Fallback
	}
	return c.format(w, f, source, dark)
}

func (c Config) format(w io.Writer, f chroma.Formatter, source string, dark bool) error {
	iterator, err := c.Lexer().Tokenise(nil, source)
	if err != nil {
		return fmt.Errorf("tokenise %s source: %w", c.Tag, err)
	}
	if err := f.Format(w, styleFor(dark), iterator); err != nil {
		return fmt.Errorf("format %s source: %w", c.Tag, err)
	}
	return nil
}

func styleFor(dark bool) *chroma.Style {
	name := LightStyle
	if dark {
		name = DarkStyle
	}
	return styles.Get(name)
}
