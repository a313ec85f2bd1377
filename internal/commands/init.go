// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/dacolabs/testgen/internal/config"
	"github.com/dacolabs/testgen/internal/emit"
	"github.com/dacolabs/testgen/internal/prompts"
	"github.com/dacolabs/testgen/internal/session"
	"github.com/spf13/cobra"
)

type initOptions struct {
	model          string
	root           string
	output         string
	emitters       []string
	workers        int
	force          bool
	nonInteractive bool
}

func newInitCmd(root *rootOptions, emitters emit.Registry) *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a " + session.ConfigFileName + " configuration file",
		Long: `Create a testgen configuration file in the current directory, or at the
path given by --config. The built-in meta-model is used unless a model is given.`,
		Example: `  # Interactive mode
  testgen init

  # Non-interactive, custom meta-model
  testgen init --model ./model.json --root Library --non-interactive`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, root, opts, emitters)
		},
	}

	cmd.Flags().StringVar(&opts.model, "model", "", "Path to a JSON or YAML meta-model, relative to the config file")
	cmd.Flags().StringVar(&opts.root, "root", "", "Root class of the meta-model (default "+config.DefaultRoot+")")
	cmd.Flags().StringVarP(&opts.output, "out", "o", config.DefaultOutput, "Output directory")
	cmd.Flags().StringSliceVarP(&opts.emitters, "emitter", "e", []string{config.DefaultEmitter}, "Emitter(s), comma-separated")
	cmd.Flags().IntVarP(&opts.workers, "workers", "w", config.DefaultWorkers, "Number of classes generated in parallel")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Overwrite an existing configuration file")
	cmd.Flags().BoolVar(&opts.nonInteractive, "non-interactive", false, "Run without prompts")

	return cmd
}

func runInit(cmd *cobra.Command, root *rootOptions, opts *initOptions, registry emit.Registry) error {
	configPath := root.configPath
	if configPath == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		configPath = filepath.Join(cwd, session.ConfigFileName)
	}
	if _, err := os.Stat(configPath); err == nil && !opts.force {
		return fmt.Errorf("%s already exists; use --force to overwrite", configPath)
	}

	if !opts.nonInteractive {
		answers := &prompts.InitAnswers{
			Model:    opts.model,
			Root:     opts.root,
			Output:   opts.output,
			Emitters: opts.emitters,
			Workers:  strconv.Itoa(opts.workers),
		}
		if err := prompts.RunInitForm(answers, registry.Available()); err != nil {
			return err
		}
		workers, err := strconv.Atoi(answers.Workers)
		if err != nil {
			return fmt.Errorf("invalid workers %q", answers.Workers)
		}
		opts.model, opts.root, opts.output = answers.Model, answers.Root, answers.Output
		opts.emitters, opts.workers = answers.Emitters, workers
	}

	cfg := &config.Config{
		Version:  config.CurrentConfigVersion,
		Model:    opts.model,
		Root:     opts.root,
		Output:   opts.output,
		Emitters: opts.emitters,
		Workers:  opts.workers,
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := registry.Resolve(cfg.Emitters); err != nil {
		return err
	}
	if cfg.Model != "" {
		modelPath := cfg.Model
		if !filepath.IsAbs(modelPath) {
			modelPath = filepath.Join(filepath.Dir(configPath), modelPath)
		}
		if _, err := os.Stat(modelPath); err != nil {
			return fmt.Errorf("%w: %s", session.ErrModelNotFound, cfg.Model)
		}
	}

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("config file couldn't be saved: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = "built-in"
	}
	prompts.PrintResult(cmd.OutOrStdout(), []prompts.ResultField{
		{Label: "Config", Value: configPath},
		{Label: "Model", Value: model},
		{Label: "Root", Value: cfg.Root},
		{Label: "Output", Value: cfg.Output},
	}, "Initialization completed")
	return nil
}
