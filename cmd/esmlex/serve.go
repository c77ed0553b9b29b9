package main

import (
	"os/signal"
	"syscall"

	"esmlex/internal/api"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *globalOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lexer over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				opts.cfg.Server.Addr = addr
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			srv, err := api.NewServer(a.Lexer, opts.cfg.Server, opts.logger)
			if err != nil {
				return err
			}
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides [server] addr)")
	return cmd
}
