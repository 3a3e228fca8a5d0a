package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/eduardolat/nanogen/internal/config"
	"github.com/eduardolat/nanogen/internal/version"
)

// ASCII art banner for the CLI
const banner = `
  _ __   __ _ _ __   ___   __ _  ___ _ __  
 | '_ \ / _' | '_ \ / _ \ / _' |/ _ \ '_ \ 
 | | | | (_| | | | | (_) | (_| |  __/ | | |
 |_| |_|\__,_|_| |_|\___/ \__, |\___|_| |_|
                          |___/            
`

// globalFlags holds the persistent flags shared by every subcommand
type globalFlags struct {
	configPath string
	debug      bool
	quiet      bool
	silent     bool
}

// logLevel applies the hierarchy: debug > default > quiet > silent
func (g *globalFlags) logLevel() slog.Level {
	switch {
	case g.debug:
		return slog.LevelDebug
	case g.silent:
		return slog.LevelError
	case g.quiet:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

// logger writes to w so that stdout stays free for generated IDs
func (g *globalFlags) logger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: g.logLevel(),
	}))
}

// loadConfig reads the configuration file, falling back to the built-in
// default profile when the default path does not exist
func (g *globalFlags) loadConfig(logger *slog.Logger) (*config.Config, error) {
	cfg, err := config.LoadOrDefault(g.configPath)
	if err != nil {
		logger.Error("failed to load configuration",
			"path", g.configPath,
			"error", err)
		return nil, err
	}

	logger.Debug("configuration loaded",
		"path", g.configPath,
		"profiles", len(cfg.Profiles),
		"backup_enabled", cfg.Output.IsBackupEnabled(),
		"backup_retention", cfg.Output.GetBackupRetentionCount())
	return cfg, nil
}

// NewRootCmd creates a new root command instance with every subcommand.
// This is useful for testing to get a fresh command tree.
func NewRootCmd() *cobra.Command {
	g := &globalFlags{}

	cmd := &cobra.Command{
		Use:           "nanogen",
		Short:         "Generate compact, URL-safe random IDs",
		Long:          banner + "\nnanogen generates random IDs from configurable alphabets using unbiased rejection sampling.",
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate(fmt.Sprintf("Version: %s\nCommit:  %s\nBuilt:   %s\n", version.Version, version.Commit, version.Date))

	flags := cmd.PersistentFlags()
	flags.StringVar(&g.configPath, "config", config.DefaultConfigPath, "Path to the configuration file")
	flags.BoolVar(&g.debug, "debug", false, "Enable debug logging (most verbose)")
	flags.BoolVar(&g.quiet, "quiet", false, "Show only warnings and errors")
	flags.BoolVar(&g.silent, "silent", false, "Show only errors (most quiet)")

	cmd.AddCommand(
		newGenerateCmd(g),
		newCheckCmd(g),
		newAlphabetsCmd(),
		newServeCmd(g),
	)

	return cmd
}
