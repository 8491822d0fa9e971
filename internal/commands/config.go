package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/diogo/personachat/internal/config"
)

// NewConfigCmd creates the config command and its subcommands
func NewConfigCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Show the configuration after applying the config file and
PERSONACHAT_* environment overrides.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (showing defaults)\n", err)
			}

			data, err := json.MarshalIndent(cfg, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to encode config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.AddCommand(newConfigEditCmd(deps))
	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigEditCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "edit",
		Short: "Edit settings in an interactive menu",
		Long: `Open a menu to change the default persona, the clipboard toggle,
the markdown style and the TUI theme. Each change is saved to config.json
right away.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig()
			if err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v (editing defaults)\n", err)
			}

			catalog, err := config.LoadPersonas()
			if err != nil {
				return err
			}

			return deps.TUI.RunConfig(cmd.Context(), cfg, catalog)
		},
	}
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default config and persona catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			configPath, err := config.GetConfigPath()
			if err != nil {
				return err
			}
			if force || !fileExists(configPath) {
				if err := config.SaveConfig(config.DefaultConfig()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", configPath)
			} else {
				fmt.Fprintf(out, "Kept existing %s\n", configPath)
			}

			personasPath, err := config.GetPersonasPath()
			if err != nil {
				return err
			}
			if force || !fileExists(personasPath) {
				if err := config.SavePersonas(config.DefaultCatalog()); err != nil {
					return err
				}
				fmt.Fprintf(out, "Wrote %s\n", personasPath)
			} else {
				fmt.Fprintf(out, "Kept existing %s\n", personasPath)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing files")
	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the configuration directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), dir)
			return nil
		},
	}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
