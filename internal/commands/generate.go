// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dacolabs/testgen/internal/emit"
	"github.com/dacolabs/testgen/internal/metrics"
	"github.com/dacolabs/testgen/internal/prompts"
	"github.com/dacolabs/testgen/internal/session"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	output      string
	emitters    []string
	classes     []string
	workers     int
	metricsFile string
}

func (o *generateOptions) overrides(cmd *cobra.Command) session.Overrides {
	var ov session.Overrides
	flags := cmd.Flags()
	if flags.Changed("out") {
		ov.Output = o.output
	}
	if flags.Changed("emitter") {
		ov.Emitters = o.emitters
	}
	if flags.Changed("class") {
		ov.Classes = o.classes
	}
	if flags.Changed("workers") {
		ov.Workers = o.workers
	}
	if flags.Changed("metrics-file") {
		ov.Metrics = o.metricsFile
	}
	return ov
}

func newGenerateCmd(root *rootOptions, emitters emit.Registry) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the test cases",
		Long: fmt.Sprintf(`Generate the test cases of every selected class and write them with
every selected emitter, together with a manifest.yaml index.

Available emitters: %s`, strings.Join(emitters.Available(), ", ")),
		Example: `  # Generate with the built-in meta-model into testdata/generated
  testgen generate

  # Only submodel classes, as JSON and YAML
  testgen generate --class 'Submodel*' --emitter json,yaml

  # Use four workers and export counters for the textfile collector
  testgen generate --workers 4 --metrics-file out/testgen.prom`,
		Args:    cobra.NoArgs,
		PreRunE: root.loadSession(opts.overrides),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runGenerate(cmd, sess, emitters)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "out", "o", "", "Output directory (default testdata/generated)")
	cmd.Flags().StringSliceVarP(&opts.emitters, "emitter", "e", nil, fmt.Sprintf("Emitter(s), comma-separated (%s)", strings.Join(emitters.Available(), ", ")))
	cmd.Flags().StringArrayVar(&opts.classes, "class", nil, "Class name glob, repeatable")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", 0, "Number of classes generated in parallel (default 1)")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "Write prometheus counters to this file")

	return cmd
}

func runGenerate(cmd *cobra.Command, sess *session.Context, registry emit.Registry) error {
	cfg := sess.Config
	emitters, err := registry.Resolve(cfg.Emitters)
	if err != nil {
		return err
	}

	cases, err := sess.Generator.Collect(cmd.Context(), cfg.Workers)
	if err != nil {
		return err
	}

	w := &emit.Writer{
		Dir:      cfg.Output,
		Emitters: emitters,
		Progress: progress(cmd.ErrOrStderr(), len(cases)),
	}
	manifest, err := w.Write(cases)
	if err != nil {
		return err
	}

	if cfg.Metrics != "" {
		rec := metrics.New()
		rec.ObserveCases(cases)
		if err := rec.WriteTextfile(cfg.Metrics); err != nil {
			return fmt.Errorf("failed to write metrics: %w", err)
		}
	}

	var expected int
	for _, e := range manifest.Cases {
		if e.Expected {
			expected++
		}
	}
	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Output", Value: cfg.Output},
		prompts.Field("Classes", len(sess.Generator.Classes())),
		prompts.Field("Cases", len(manifest.Cases)),
		prompts.Field("Expected", expected),
		prompts.Field("Unexpected", len(manifest.Cases)-expected),
	}, "Generation completed")
	return nil
}

// progress reports the written cases on w when it is a terminal.
func progress(w io.Writer, total int) func(int) {
	f, ok := w.(*os.File)
	if !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
		return nil
	}
	return func(written int) {
		_, _ = fmt.Fprintf(f, "\rWriting cases %d/%d", written, total)
		if written == total {
			_, _ = fmt.Fprintln(f)
		}
	}
}
