package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/eduardolat/nanogen/internal/idcheck"
)

func newCheckCmd(g *globalFlags) *cobra.Command {
	var pf profileFlags

	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Validate IDs against a profile, one per line",
		Long:  "Validate IDs read from file (or stdin) against the alphabet and length of a profile.\nBlank lines and lines starting with # are skipped. Exits with status 1 when any ID is invalid.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := g.logger(cmd.ErrOrStderr())

			cfg, err := g.loadConfig(logger)
			if err != nil {
				return err
			}

			profile, err := pf.resolve(cmd, cfg)
			if err != nil {
				return err
			}
			alphabet, err := profile.GetAlphabet()
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			source := "stdin"
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer f.Close()
				in, source = f, args[0]
			}

			result, err := idcheck.Check(in, alphabet, profile.GetLength())
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", source, err)
			}

			out := cmd.OutOrStdout()
			for _, finding := range result.Invalid {
				fmt.Fprintf(out, "%s:%d: %s: %q\n", source, finding.LineNumber, finding.Reason, finding.Line)
			}

			logger.Info("check complete",
				"source", source,
				"profile", profile.Name,
				"valid", result.Valid,
				"invalid", len(result.Invalid),
				"skipped", result.SkippedLines)

			if !result.OK() {
				return fmt.Errorf("%d invalid IDs in %s", len(result.Invalid), source)
			}
			return nil
		},
	}

	pf.register(cmd, false)
	return cmd
}
