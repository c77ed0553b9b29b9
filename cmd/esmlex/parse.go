package main

import (
	"io"
	"os"

	"esmlex/internal/core/app"
	"esmlex/internal/core/errors"
	"esmlex/internal/engine/lexer"
	"esmlex/internal/ui/report"

	"github.com/spf13/cobra"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var (
		format   string
		filename string
		strict   bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file...]",
		Short: "Lex files, or stdin with --filename, and print their imports and exports",
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := report.ParseFormat(formatOr(format, opts.cfg.Output.Format))
			if err != nil {
				return err
			}
			a, err := opts.newApp()
			if err != nil {
				return err
			}
			defer a.Close()

			inputs, err := readInputs(cmd.InOrStdin(), args, filename)
			if err != nil {
				return err
			}

			outcomes := a.Lexer.ParseAll(cmd.Context(), inputs)
			if strict {
				if err := strictError(outcomes); err != nil {
					return err
				}
			}

			files := make([]app.FileReport, 0, len(inputs))
			for _, o := range outcomes {
				fr := app.FileReport{Path: o.Path, Result: o.Result, Err: o.Err}
				if spec, err := a.Lexer.Parser().Detect(o.Path); err == nil {
					fr.Language = spec.Name
				}
				files = append(files, fr)
			}
			return report.WriteFiles(cmd.OutOrStdout(), f, files)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: json, tsv or text")
	cmd.Flags().StringVar(&filename, "filename", "", "read source from stdin and lex it as this path")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail with every error when any file fails")
	return cmd
}

func readInputs(stdin io.Reader, args []string, filename string) ([]lexer.Input, error) {
	if filename != "" {
		src, err := io.ReadAll(stdin)
		if err != nil {
			return nil, err
		}
		return []lexer.Input{{Source: src, Path: filename}}, nil
	}
	inputs := make([]lexer.Input, 0, len(args))
	for _, path := range args {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, lexer.Input{Source: src, Path: path})
	}
	return inputs, nil
}

func strictError(outcomes []lexer.Outcome) error {
	var failures []lexer.Outcome
	for _, o := range outcomes {
		if o.Err != nil {
			failures = append(failures, o)
		}
	}
	if len(failures) == 0 {
		return nil
	}
	return errors.Wrap(&lexer.BatchError{Total: len(outcomes), Failures: failures}, errors.CodeOf(failures[0].Err), "batch failed")
}

func formatOr(flagValue, configured string) string {
	if flagValue != "" {
		return flagValue
	}
	return configured
}
