package commands

import (
	"log/slog"

	"github.com/leapstack-labs/codepad/internal/cli/config"
	intconfig "github.com/leapstack-labs/codepad/internal/config"
	"github.com/leapstack-labs/codepad/internal/execclient"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/spf13/cobra"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Executor *execclient.Client
	// Language is the language new editors start with.
	Language language.Tag
}

// NewCommandContext creates a CommandContext with an execution client built
// from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())

	if cfg.APIURL == "" {
		logger.Warn("no execution service configured; runs will fail",
			"hint", "set api_url in "+intconfig.ConfigFileName+" or CODEPAD_API_URL")
	}

	lang, err := cfg.Language()
	if err != nil {
		lang = language.Default
	}

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Language: lang,
		Executor: execclient.New(execclient.Config{
			BaseURL: cfg.APIURL,
			Timeout: cfg.RequestTimeout,
			Logger:  logger,
		}),
	}
}

// getConfig returns the current configuration, or the defaults when none
// was loaded.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	return intconfig.Default()
}
