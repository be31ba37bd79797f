// Package cli provides the command-line interface for chatstat.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/chatstat/internal/cli/commands"
	"github.com/ccollicutt/chatstat/internal/cli/plugins"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return run(ctx, os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	commands.ExitCode = commands.ExitOK

	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	name, isPlugin := pluginCommand(rootCmd, args)
	if isPlugin {
		if pluginPath, err := plugins.FindPlugin(name); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:])
		}
	}

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if isPlugin {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(name))
			return commands.ExitError
		}
		// SilenceErrors prevents Cobra from printing this
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return commands.ExitError
	}
	return commands.ExitCode
}

// pluginCommand returns the first argument when it names no built-in command.
func pluginCommand(rootCmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		return "", false
	}
	if isBuiltinCommand(rootCmd, args[0]) {
		return "", false
	}
	return args[0], true
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "chatstat",
		Short: "Statistics for exported chat transcripts",
		Long: `chatstat parses an exported group chat transcript and reports who talks,
when, and how: message counts per sender, activity by hour, weekday and month,
emojis, links, multimedia, and the longest and most verbose messages.

Without --config the built-in Spanish locale is used. Environment variables
prefixed with CHATSTAT_ override the config file, and a .env file in the
working directory is loaded first.

PLUGINS:
  Commands chatstat does not know are run as plugins: standalone binaries
  named chatstat-<command>. Plugins receive the path of this binary in
  CHATSTAT_BIN and usually read 'chatstat analyze -o json'.

  Plugin locations (searched in order):
    1. Same directory as the chatstat binary
    2. ~/.chatstat/plugins/
    3. Anywhere in PATH

  Common plugins:
    chart      Charts of the hourly, weekday and timeline tables
    wordcloud  Word cloud of the message text`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringP(commands.ConfigFlag, "c", "", "Config file (YAML, or TOML with a .toml extension)")
	rootCmd.PersistentFlags().String(commands.LogLevelFlag, "", "Log level (DEBUG|INFO|WARN|ERROR), overrides the config")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewEventsCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
