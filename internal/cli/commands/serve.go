package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	intconfig "github.com/leapstack-labs/codepad/internal/config"
	"github.com/leapstack-labs/codepad/internal/ui"
	"github.com/spf13/cobra"
)

// ServeOptions holds options for the serve command.
type ServeOptions struct {
	Port      int
	NoBrowser bool
	Dev       bool
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"ui"},
		Short:   "Start the browser code editor",
		Long: `Start a local web server providing the code editor.

Every browser tab gets its own editor session. Runs are forwarded to the
execution service configured with api_url; the editor itself never
executes code.`,
		Example: `  # Start on the default port
  codepad serve --api-url https://runner.example.com

  # Start on a custom port
  codepad serve --port 3000

  # Start without auto-opening the browser
  codepad serve --no-browser`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Reload open pages when static assets change")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	cc := NewCommandContext(cmd)
	uiCfg := cc.Cfg.UI
	if uiCfg == nil {
		uiCfg = intconfig.DefaultUIConfig()
	}

	// --port and --dev are already merged into the config by the loader.
	autoOpen := uiCfg.AutoOpen && !opts.NoBrowser

	server := ui.NewServer(ui.Config{
		Executor:        cc.Executor,
		Port:            uiCfg.Port,
		Dev:             uiCfg.Dev,
		SessionSecret:   uiCfg.SessionSecret,
		SessionTTL:      uiCfg.SessionTTL,
		SweepInterval:   intconfig.DefaultSweepInterval,
		DefaultLanguage: cc.Language,
		Logger:          cc.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", uiCfg.Port)
	if autoOpen {
		go openBrowser(url)
	}

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting codepad on %s\n", url)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
