package commands

import (
	"errors"
	"os"

	"github.com/leapstack-labs/codepad/internal/session"
	"github.com/leapstack-labs/codepad/internal/tui"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// errNotATerminal is returned when the terminal editor cannot take over the
// terminal.
var errNotATerminal = errors.New("the terminal editor needs an interactive terminal; use 'codepad serve' instead")

// NewTUICommand creates the tui command.
func NewTUICommand() *cobra.Command {
	var theme string

	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Start the terminal code editor",
		Long: `Start a full-screen code editor in the terminal.

It offers the same languages as the browser editor and sends runs to the
same execution service.`,
		Example: `  codepad tui --api-url https://runner.example.com
  codepad tui --theme light`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
				return errNotATerminal
			}

			cc := NewCommandContext(cmd)
			cfg := tui.Config{
				Session:  session.New("tui", session.WithLanguage(cc.Language)),
				Executor: cc.Executor,
				Logger:   cc.Logger,
			}
			if prefersDark, ok := parseTheme(theme); ok {
				cfg.PrefersDark = &prefersDark
			}
			return tui.Run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVar(&theme, "theme", "auto", "Color theme (auto|dark|light)")
	_ = cmd.RegisterFlagCompletionFunc("theme", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "dark", "light"}, cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// parseTheme returns the forced theme, or false when the terminal background
// should decide.
func parseTheme(theme string) (dark bool, forced bool) {
	switch theme {
	case "dark":
		return true, true
	case "light":
		return false, true
	}
	return false, false
}
