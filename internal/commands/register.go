// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package commands contains all CLI command definitions.
package commands

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/dacolabs/testgen/internal/emit"
	"github.com/dacolabs/testgen/internal/session"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configPath string
	logLevel   string
}

// logger builds a text logger on w at the configured level.
func (o *rootOptions) logger(w io.Writer) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(o.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", o.logLevel)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})), nil
}

// loadSession returns a PreRunE loading the session with the overrides of the command.
func (o *rootOptions) loadSession(overrides func(cmd *cobra.Command) session.Overrides) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logger, err := o.logger(cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		opts := session.Options{ConfigPath: o.configPath, Logger: logger}
		if overrides != nil {
			opts.Overrides = overrides(cmd)
		}
		return session.PreRunLoad(cmd, opts)
	}
}

// NewRootCmd creates and returns the root command for the CLI.
func NewRootCmd(emitters emit.Registry) *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "testgen",
		Short: "Generate deterministic test fixtures from a meta-model",
		Long: fmt.Sprintf(`Generate deterministic test fixtures from a meta-model.

For every concrete class a minimal and a maximal valid instance are generated,
together with cases that each break exactly one rule.

Available emitters: %s`, strings.Join(emitters.Available(), ", ")),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Config file (default ./"+session.ConfigFileName+" when present)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	rootCmd.AddCommand(newInitCmd(opts, emitters))
	rootCmd.AddCommand(newGenerateCmd(opts, emitters))
	rootCmd.AddCommand(newClassesCmd(opts))
	rootCmd.AddCommand(newDumpCmd(opts))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}
