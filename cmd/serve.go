package main

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	"github.com/eduardolat/nanogen/internal/httpapi"
	"github.com/eduardolat/nanogen/internal/issuer"
	"github.com/eduardolat/nanogen/internal/version"
)

func newServeCmd(g *globalFlags) *cobra.Command {
	var (
		addr     string
		envFiles []string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve IDs over HTTP",
		Long:  "Serve IDs over HTTP.\nNANOGEN_ADDR and NANOGEN_MAX_COUNT override the server section of the configuration.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := g.logger(cmd.ErrOrStderr())

			cfg, err := g.loadConfig(logger)
			if err != nil {
				return err
			}
			if err := cfg.ApplyEnv(envFiles...); err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}

			iss, err := issuer.New(cfg, logger)
			if err != nil {
				return err
			}

			ln, err := net.Listen("tcp", cfg.Server.GetAddr())
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Server.GetAddr(), err)
			}

			logger.Info("nanogen starting",
				"version", version.Version,
				"config", g.configPath,
				"profiles", len(cfg.Profiles),
				"max_count", cfg.Server.GetMaxCount())

			router := httpapi.NewRouter(iss, cfg.Server, logger, httpapi.NewMetrics())
			return httpapi.Serve(cmd.Context(), ln, router, logger)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config and NANOGEN_ADDR)")
	cmd.Flags().StringSliceVar(&envFiles, "env-file", nil, "Dotenv file to load before reading NANOGEN_* variables (repeatable)")
	return cmd
}
