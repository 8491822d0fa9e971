// Package commands provides CLI commands for personachat.
package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootOptions holds the flags shared by all commands
type rootOptions struct {
	persona  string
	backend  string
	logLevel string

	file string
	raw  bool
}

// NewRootCmd creates the personachat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "personachat [message]",
		Short: "Chat with a persona-driven chatbot backend",
		Long: `personachat talks to a chatbot backend that answers in the voice of a
selected persona. Each message is sent on its own; the backend keeps no
conversation state.

Examples:
  personachat chat                          Start the interactive chat
  personachat "Recommend a noir film"       Send a single message
  personachat -p travel_guide "Lisbon?"     Pick the persona for one message
  personachat -f question.txt               Read the message from a file
  echo "Hi" | personachat --raw             Read stdin, print the bare reply
  personachat personas                      List available personas`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "personachat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			if opts.file != "" {
				data, err := os.ReadFile(opts.file)
				if err != nil {
					return fmt.Errorf("failed to read file: %w", err)
				}
				return runQuery(cmd, deps, opts, string(data))
			}

			if len(args) > 0 {
				return runQuery(cmd, deps, opts, args[0])
			}

			if input, ok, err := readPipedInput(cmd.InOrStdin()); err != nil {
				return fmt.Errorf("failed to read stdin: %w", err)
			} else if ok {
				return runQuery(cmd, deps, opts, input)
			}

			// No input - show help
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.persona, "persona", "p", "", "Persona id to chat with (see 'personachat personas')")
	cmd.PersistentFlags().StringVarP(&opts.backend, "backend", "b", "", "Backend base URL (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Log level: trace, debug, info, warn, error, off")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the message from file")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "Print only the reply text")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps, opts))
	cmd.AddCommand(NewPersonasCmd(opts))
	cmd.AddCommand(NewConfigCmd(deps))

	return cmd
}

var rootCmd = NewRootCmd(nil)

// Execute runs the root command. Interrupts cancel the running exchange.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, formatErrorMessage(err, "Error"))
		stop()
		os.Exit(1)
	}
}

// readPipedInput reads r when it is not an interactive terminal
func readPipedInput(r io.Reader) (string, bool, error) {
	if f, ok := r.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
			return "", false, nil
		}
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return "", false, err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", false, nil
	}
	return string(data), true, nil
}
