package main

import (
	"fmt"

	"github.com/devlog-sh/devlog/internal"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func NewServeCmd(engines engineFactory, commits commitsFactory, logger zerolog.Logger) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the progress log over HTTP",
		Long:  `Expose add, search and sync as a JSON API.`,
		RunE:  makeServeRunner(engines, commits, logger),
	}

	cmd.Flags().String("addr", "", "Listen address (defaults to the configured server.addr)")
	return cmd
}

func makeServeRunner(engines engineFactory, commits commitsFactory, logger zerolog.Logger) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		scopeHint, _ := cmd.Flags().GetString("scope")
		addr, _ := cmd.Flags().GetString("addr")

		engine, scope, err := engines(scopeHint)
		if err != nil {
			return err
		}

		if addr == "" {
			cfg, err := internal.LoadConfig(scope)
			if err != nil {
				return err
			}
			addr = cfg.Server.Addr
		}

		// Sync stays available without a repository; the endpoint reports
		// unavailable instead.
		log, err := commits(scope)
		if err != nil {
			logger.Warn().Err(err).Msg("git sync disabled")
			log = nil
		}

		srv := internal.NewServer(engine, log, logger)
		fmt.Fprintf(cmd.OutOrStdout(), "Serving on http://%s\n", addr)
		return srv.Start(addr)
	}
}
