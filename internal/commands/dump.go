// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"

	"github.com/dacolabs/testgen/internal/preserial"
	"github.com/dacolabs/testgen/internal/session"
	"github.com/spf13/cobra"
)

type dumpOptions struct {
	maximal bool
}

func newDumpCmd(root *rootOptions) *cobra.Command {
	opts := &dumpOptions{}

	cmd := &cobra.Command{
		Use:   "dump <class>",
		Short: "Print the repaired base container of a class",
		Long: `Print the container of the minimal (or maximal) instance of a class,
embedded and repaired, the way every case of the class starts from.`,
		Example: `  # Minimal submodel in its environment
  testgen dump Submodel

  # Maximal key
  testgen dump Key --maximal`,
		Args:    cobra.ExactArgs(1),
		PreRunE: root.loadSession(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runDump(cmd, sess, args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.maximal, "maximal", false, "Dump the maximal instance")

	return cmd
}

func runDump(cmd *cobra.Command, sess *session.Context, className string, opts *dumpOptions) error {
	class, err := sess.Schema.Class(className)
	if err != nil {
		return err
	}
	if class.Abstract {
		return fmt.Errorf("class %s is abstract", className)
	}

	replica, err := sess.Generator.Base(class, opts.maximal)
	if err != nil {
		return err
	}
	tree, _ := preserial.Preserialize(replica.Container)
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "# %s at %s\n%s\n", className, pathOrRoot(replica.Path.String()), preserial.Dump(tree))
	return nil
}

func pathOrRoot(p string) string {
	if p == "" {
		return "<root>"
	}
	return p
}
