// Package plugins runs external chatstat-<command> binaries for commands the
// CLI does not implement itself. Chart and word cloud renderers live there:
// they call back into chatstat for the JSON report and draw it.
package plugins

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Prefix is prepended to a command name to form the plugin binary name.
const Prefix = "chatstat-"

// BinEnv names the environment variable through which a plugin learns the
// path of the chatstat binary that launched it.
const BinEnv = "CHATSTAT_BIN"

// KnownPlugins lists presentation plugins users commonly ask for.
var KnownPlugins = map[string]string{
	"chart":     "Renders the hourly, weekday and timeline tables as charts from 'chatstat analyze -o json'.",
	"wordcloud": "Draws a word cloud from the word_corpus field of the JSON report.",
}

// ErrPluginNotFound is returned when no plugin binary can be located.
var ErrPluginNotFound = errors.New("plugin not found")

// Finder locates plugin binaries. Dirs are searched in order before PATH.
type Finder struct {
	Dirs    []string
	UsePath bool
}

// DefaultFinder searches the directory of the running binary, then
// ~/.chatstat/plugins, then PATH.
func DefaultFinder() *Finder {
	f := &Finder{UsePath: true}
	if execPath, err := os.Executable(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Dir(execPath))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		f.Dirs = append(f.Dirs, filepath.Join(homeDir, ".chatstat", "plugins"))
	}
	return f
}

// Find returns the full path of the chatstat-<command> binary.
func (f *Finder) Find(command string) (string, error) {
	if command == "" || strings.ContainsRune(command, filepath.Separator) {
		return "", ErrPluginNotFound
	}
	name := Prefix + command

	for _, dir := range f.Dirs {
		candidate := filepath.Join(dir, name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	if f.UsePath {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}

	return "", ErrPluginNotFound
}

// FindPlugin searches the default locations.
func FindPlugin(command string) (string, error) {
	return DefaultFinder().Find(command)
}

// Execute runs a plugin with the given arguments, wired to the current
// stdio, and returns its exit code.
func Execute(ctx context.Context, pluginPath string, args []string) int {
	cmd := exec.CommandContext(ctx, pluginPath, args...) // #nosec G204 -- plugin path comes from Find
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = os.Environ()
	if self, err := os.Executable(); err == nil {
		cmd.Env = append(cmd.Env, BinEnv+"="+self)
	}

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return exitErr.ExitCode()
		}
		fmt.Fprintf(os.Stderr, "Error executing plugin: %v\n", err)
		return 1
	}
	return 0
}

// FormatNotFoundError explains how to install a missing plugin.
func FormatNotFoundError(command string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "unknown command %q for \"chatstat\"\n", command)

	if info, ok := KnownPlugins[command]; ok {
		fmt.Fprintf(&sb, "\n%q is provided by a plugin.\n%s\n\nInstall the plugin binary as one of:\n", command, info)
	} else {
		sb.WriteString("\nIf this is a plugin, install the binary as one of:\n")
	}

	fmt.Fprintf(&sb, "  - %s%s next to the chatstat binary\n", Prefix, command)
	fmt.Fprintf(&sb, "  - ~/.chatstat/plugins/%s%s\n", Prefix, command)
	fmt.Fprintf(&sb, "  - %s%s anywhere in your PATH\n", Prefix, command)
	sb.WriteString("\nRun 'chatstat --help' for usage.")

	return sb.String()
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.Mode().IsRegular() && info.Mode()&0111 != 0
}
