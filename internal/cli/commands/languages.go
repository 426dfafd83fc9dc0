package commands

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/leapstack-labs/codepad/internal/language"
	"github.com/spf13/cobra"
)

// languageInfo is the JSON form of one registry entry.
type languageInfo struct {
	Tag         string `json:"tag"`
	Name        string `json:"name"`
	File        string `json:"file"`
	Highlighter string `json:"highlighter"`
	Endpoint    string `json:"endpoint,omitempty"`
}

// NewLanguagesCommand creates the languages command.
func NewLanguagesCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:     "languages",
		Aliases: []string{"langs"},
		Short:   "List the supported languages",
		Long:    `List the supported languages in display order, with the execution endpoint each one posts to.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cc := NewCommandContext(cmd)
			infos := make([]languageInfo, 0, len(language.Tags()))
			for _, cfg := range language.All() {
				info := languageInfo{
					Tag:         cfg.Tag.String(),
					Name:        cfg.DisplayName,
					File:        cfg.Filename(),
					Highlighter: cfg.Highlighter,
				}
				if cc.Cfg.APIURL != "" {
					info.Endpoint = cc.Executor.Endpoint(cfg.Tag)
				}
				infos = append(infos, info)
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}
			renderLanguages(cmd.OutOrStdout(), infos)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output as JSON")

	return cmd
}

func renderLanguages(w io.Writer, infos []languageInfo) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Tag", "Language", "File", "Highlighter", "Endpoint"})
	for _, info := range infos {
		endpoint := info.Endpoint
		if endpoint == "" {
			endpoint = "-"
		}
		t.AppendRow(table.Row{info.Tag, info.Name, info.File, info.Highlighter, endpoint})
	}
	t.Render()
	_, _ = fmt.Fprintf(w, "(%d languages)\n", len(infos))
}
