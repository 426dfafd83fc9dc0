package commands

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/leapstack-labs/codepad/internal/cli/config"
	intconfig "github.com/leapstack-labs/codepad/internal/config"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const configHeader = `# codepad configuration.
# Every key can be overridden with a CODEPAD_* environment variable or a flag,
# e.g. CODEPAD_API_URL or --api-url.
`

// configFile is the on-disk layout of codepad.yaml. Durations are written in
// their string form so the file stays readable.
type configFile struct {
	APIURL          string       `yaml:"api_url"`
	RequestTimeout  string       `yaml:"request_timeout"`
	DefaultLanguage string       `yaml:"default_language"`
	LogFormat       string       `yaml:"log_format"`
	UI              uiConfigFile `yaml:"ui"`
}

type uiConfigFile struct {
	Port       int    `yaml:"port"`
	AutoOpen   bool   `yaml:"auto_open"`
	SessionTTL string `yaml:"session_ttl"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool
	var apiURL string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Write a default codepad.yaml",
		Long: `Write a codepad.yaml with the default settings.

The file names every setting codepad reads; edit api_url to point the editor
at your execution service.`,
		Example: `  # Initialize in current directory
  codepad init

  # Initialize with the execution service filled in
  codepad init --url https://runner.example.com

  # Force overwrite existing config
  codepad init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			path, err := runInit(dir, apiURL, force)
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Next steps:")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  1. Set api_url to your execution service")
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "  2. Run 'codepad serve' to open the editor")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration")
	cmd.Flags().StringVar(&apiURL, "url", "", "Execution service URL to write into the file")

	return cmd
}

func runInit(dir, apiURL string, force bool) (string, error) {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	path := config.ConfigPath(dir)
	if _, err := os.Stat(path); err == nil && !force {
		return "", fmt.Errorf("%s already exists. Use --force to overwrite", path)
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to check %s: %w", path, err)
	}

	data, err := marshalDefaultConfig(apiURL)
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func marshalDefaultConfig(apiURL string) ([]byte, error) {
	def := intconfig.Default()
	file := configFile{
		APIURL:          apiURL,
		RequestTimeout:  def.RequestTimeout.String(),
		DefaultLanguage: def.DefaultLanguage,
		LogFormat:       def.LogFormat,
		UI: uiConfigFile{
			Port:       def.UI.Port,
			AutoOpen:   def.UI.AutoOpen,
			SessionTTL: def.UI.SessionTTL.String(),
		},
	}

	var buf bytes.Buffer
	buf.WriteString(configHeader)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(file); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
