package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"esmlex/internal/core/app"
	"esmlex/internal/core/config"
	"esmlex/internal/shared/observability"
	"esmlex/internal/shared/version"

	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	verbose    bool
	logFile    string

	cfg      *config.Config
	logger   *slog.Logger
	shutdown observability.ShutdownFunc
	closers  []io.Closer
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:           "esmlex",
		Short:         "Extract ES module imports and exports from JavaScript and TypeScript",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version.String(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.teardown()
		},
	}
	root.SetVersionTemplate("esmlex {{.Version}}\n")

	root.PersistentFlags().StringVarP(&opts.configPath, "config", "c", config.DefaultFile, "path to config file")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "write logs to this file instead of stderr")

	root.AddCommand(
		newParseCmd(opts),
		newScanCmd(opts),
		newWatchCmd(opts),
		newServeCmd(opts),
		newRunsCmd(opts),
		newVersionCmd(),
	)
	return root
}

func (o *globalOptions) setup(cmd *cobra.Command) error {
	var out io.Writer = cmd.ErrOrStderr()
	if o.logFile != "" {
		if err := os.MkdirAll(filepath.Dir(o.logFile), 0o700); err != nil {
			return err
		}
		f, err := os.OpenFile(o.logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
		if err != nil {
			return err
		}
		o.closers = append(o.closers, f)
		out = f
	}
	o.logger = observability.NewLogger(out, o.verbose)
	slog.SetDefault(o.logger)

	cfg, err := config.LoadOrDefault(o.configPath, cmd.Flags().Changed("config"))
	if err != nil {
		return err
	}
	o.cfg = cfg

	shutdown, err := observability.InitTracing(cmd.Context(), observability.TracingConfig{
		ServiceName:    cfg.Observability.ServiceName,
		ServiceVersion: version.Version,
		OTLPEndpoint:   cfg.Observability.OTLPEndpoint,
		OTLPInsecure:   cfg.Observability.OTLPInsecure,
		SampleRatio:    cfg.Observability.SampleRatio,
	})
	if err != nil {
		return err
	}
	o.shutdown = shutdown
	return nil
}

func (o *globalOptions) teardown() error {
	if o.shutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := o.shutdown(ctx); err != nil {
			o.logger.Warn("failed to flush traces", "error", err)
		}
	}
	for _, c := range o.closers {
		_ = c.Close()
	}
	return nil
}

// newApp builds the application for commands that need one. The caller closes it.
func (o *globalOptions) newApp() (*app.App, error) {
	return app.New(o.cfg, o.logger)
}

func rootsFromArgs(args []string) []string {
	if len(args) == 0 {
		return []string{"."}
	}
	return args
}
