package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/personachat/internal/config"
	"github.com/diogo/personachat/internal/render"
)

// NewPersonasCmd creates the command listing the persona catalog
func NewPersonasCmd(opts *rootOptions) *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:     "personas",
		Aliases: []string{"persona"},
		Short:   "List available personas",
		Long: `List the personas offered by the selector. The catalog is read from
personas.yaml in the config directory, or the built-in list when the file
does not exist.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			catalog, err := config.LoadPersonas()
			if err != nil {
				return err
			}

			cfg, _ := config.LoadConfig()
			active := catalog.Initial(cfg.DefaultPersona)
			if opts.persona != "" {
				active = opts.persona
			}

			out := cmd.OutOrStdout()
			if plain {
				for _, p := range catalog.Personas {
					fmt.Fprintf(out, "%s\t%s\n", p.ID, p.DisplayName())
				}
				return nil
			}

			renderOpts := render.OptionsFromConfig(cfg, getTerminalWidth())
			if !isTerminal(out) {
				renderOpts = renderOpts.WithStyle(render.StyleNoTTY)
			}
			fmt.Fprintln(out, render.MarkdownOrPlain(personasMarkdown(catalog, active), renderOpts))
			return nil
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "Print id and label separated by a tab")
	return cmd
}

// personasMarkdown builds the catalog table, marking the active persona
func personasMarkdown(catalog *config.PersonaCatalog, active string) string {
	var sb strings.Builder
	sb.WriteString("# Personas\n\n")
	sb.WriteString("| ID | Name | Description |\n")
	sb.WriteString("|---|---|---|\n")

	for _, p := range catalog.Personas {
		id := "`" + p.ID + "`"
		if p.ID == active {
			id += " *"
		}
		fmt.Fprintf(&sb, "| %s | %s | %s |\n", id, escapeCell(p.DisplayName()), escapeCell(p.Description))
	}

	sb.WriteString("\n`*` marks the persona used by default. Pick another with `--persona` or `Ctrl+P` in chat.\n")
	return sb.String()
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
