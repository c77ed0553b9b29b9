package main

import (
	"os/signal"
	"syscall"

	"esmlex/internal/core/app"
	"esmlex/internal/ui/cli"
	"esmlex/internal/ui/report"

	"github.com/spf13/cobra"
)

func newWatchCmd(opts *globalOptions) *cobra.Command {
	var (
		format string
		ui     bool
	)

	cmd := &cobra.Command{
		Use:   "watch [dir...]",
		Short: "Re-lex files as they change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			roots := rootsFromArgs(args)
			if ui {
				return cli.RunWatchUI(ctx, a, roots)
			}

			f, err := report.ParseFormat(formatOr(format, opts.cfg.Output.Format))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return a.Watch(ctx, roots, func(u app.Update) {
				for _, path := range u.Removed {
					opts.logger.Info("file removed", "path", path)
				}
				if err := report.WriteFiles(out, f, u.Files); err != nil {
					opts.logger.Error("failed to write update", "error", err)
				}
			})
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, tsv or text")
	cmd.Flags().BoolVar(&ui, "ui", false, "show a terminal dashboard (use --log-file to keep logs off the screen)")
	return cmd
}
