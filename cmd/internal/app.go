// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package internal contains the main application logic for the CLI.
package internal

import (
	"context"

	"github.com/dacolabs/testgen/internal/commands"
	"github.com/dacolabs/testgen/internal/emit"
)

// Run is the main application logic, extracted for testability.
// It accepts OS dependencies as parameters (context, arguments).
func Run(ctx context.Context, args []string) error {
	rootCmd := commands.NewRootCmd(emit.Default())
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}
