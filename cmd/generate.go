package main

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/eduardolat/nanogen/internal/backup"
	"github.com/eduardolat/nanogen/internal/config"
	"github.com/eduardolat/nanogen/internal/issuer"
	"github.com/eduardolat/nanogen/internal/outfile"
)

// exporter writes generated IDs to a file, backing up the previous content
type exporter struct {
	cfg     config.Output
	logger  *slog.Logger
	backups backup.ManagerProvider
	writer  outfile.WriterProvider
}

func newExporter(cfg config.Output, logger *slog.Logger) *exporter {
	return &exporter{
		cfg:     cfg,
		logger:  logger,
		backups: backup.New(),
		writer:  outfile.New(),
	}
}

// export writes ids to path. The previous file is backed up only when it is
// non-empty and its content changes. A failed backup aborts the write, a
// failed rotation only warns.
func (e *exporter) export(path string, ids []string) error {
	existing, _ := os.ReadFile(path)
	changed := len(existing) > 0 && !bytes.Equal(existing, outfile.Encode(ids))

	if e.cfg.IsBackupEnabled() && changed {
		backupPath, err := e.backups.CreateBackup(path)
		if err != nil {
			e.logger.Error("failed to create backup",
				"path", path,
				"error", err)
			return fmt.Errorf("failed to create backup: %w", err)
		}
		if backupPath != "" {
			e.logger.Info("created backup",
				"path", backupPath)
		}

		deleted, err := e.backups.RotateBackups(path, e.cfg.GetBackupRetentionCount())
		if err != nil {
			e.logger.Warn("failed to rotate backups",
				"path", path,
				"error", err)
		} else if len(deleted) > 0 {
			e.logger.Info("rotated old backups",
				"deleted", len(deleted))
		}
	}

	result, err := e.writer.WriteAtomic(path, ids)
	if err != nil {
		e.logger.Error("failed to write output file",
			"path", path,
			"error", err)
		return err
	}

	e.logger.Info("output written",
		"path", result.Path,
		"ids", result.Lines,
		"changed", result.Changed)
	return nil
}

func newGenerateCmd(g *globalFlags) *cobra.Command {
	var (
		pf     profileFlags
		count  int
		output string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate IDs",
		Example: `  nanogen generate                          # One ID from the default profile
  nanogen generate -n 100 --length 10       # 100 IDs of 10 symbols
  nanogen generate --alphabet-name numbers  # Numeric ID
  nanogen generate -n 1000 --output ids.txt # Write to a file atomically`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := g.logger(cmd.ErrOrStderr())

			if count < 1 {
				return errors.New("count must be positive")
			}

			cfg, err := g.loadConfig(logger)
			if err != nil {
				return err
			}

			profile, err := pf.resolve(cmd, cfg)
			if err != nil {
				return err
			}

			iss, err := issuer.New(&config.Config{Profiles: []config.Profile{profile}}, logger)
			if err != nil {
				return err
			}

			result, err := iss.Issue(cmd.Context(), issuer.Request{Profile: profile.Name, Count: count})
			if err != nil {
				return err
			}

			logger.Debug("ids generated",
				"profile", profile.Name,
				"count", len(result.IDs),
				"duration_ms", result.Duration.Milliseconds())

			if output != "" {
				return newExporter(cfg.Output, logger).export(output, result.IDs)
			}

			_, err = cmd.OutOrStdout().Write(outfile.Encode(result.IDs))
			return err
		},
	}

	pf.register(cmd, true)
	cmd.Flags().IntVarP(&count, "count", "n", 1, "Number of IDs to generate")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write IDs to this file instead of stdout")

	return cmd
}
