package main

import (
	"fmt"

	"esmlex/internal/core/errors"
	"esmlex/internal/ui/report"

	"github.com/spf13/cobra"
)

func newScanCmd(opts *globalOptions) *cobra.Command {
	var (
		format    string
		useCache  bool
		failOnErr bool
	)

	cmd := &cobra.Command{
		Use:   "scan [dir...]",
		Short: "Lex every JavaScript and TypeScript file below the given directories",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(formatOr(format, opts.cfg.Output.Format))
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("cache") {
				opts.cfg.Cache.Enabled = useCache
			}

			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			rep, err := a.Scan(cmd.Context(), rootsFromArgs(args))
			if err != nil {
				return err
			}
			if err := report.Write(cmd.OutOrStdout(), f, rep); err != nil {
				return err
			}

			stats := rep.Stats()
			opts.logger.Info("scan finished",
				"run_id", rep.RunID,
				"files", stats.Files,
				"failed", stats.Failed,
				"cache_hits", stats.CacheHits,
				"duration", rep.Duration,
			)
			if failOnErr && stats.Failed > 0 {
				return errors.New(errors.CodeSyntax, fmt.Sprintf("%d of %d files failed to lex", stats.Failed, stats.Files))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, tsv or text")
	cmd.Flags().BoolVar(&useCache, "cache", false, "use the sqlite result cache (overrides [cache] enabled)")
	cmd.Flags().BoolVar(&failOnErr, "fail-on-error", false, "exit non-zero when any file fails to lex")
	return cmd
}
