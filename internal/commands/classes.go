// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/dacolabs/testgen/internal/prompts"
	"github.com/dacolabs/testgen/internal/session"
	"github.com/spf13/cobra"
)

func newClassesCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classes",
		Short: "List the classes cases are generated for",
		Long: `List the concrete classes of the meta-model with the class they are
embedded in and the containment path from it.`,
		Example: `  # List the classes of the configured meta-model
  testgen classes`,
		Args:    cobra.NoArgs,
		PreRunE: root.loadSession(nil),
		RunE: func(cmd *cobra.Command, args []string) error {
			sess, err := session.RequireFromCommand(cmd)
			if err != nil {
				return err
			}
			return runClasses(cmd, sess)
		},
	}
	return cmd
}

func runClasses(cmd *cobra.Command, sess *session.Context) error {
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "CLASS\tCONTAINER\tPATH")
	classes := sess.Generator.Classes()
	selfContained := 0
	for _, c := range classes {
		container := sess.Generator.ContainerClass(c.Name)
		where := "self-contained"
		if container == c.Name {
			selfContained++
		} else {
			where = "unreachable"
			if path, ok := sess.Graph.Path(c.Name); ok {
				where = path.String()
			}
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\n", c.Name, container, where)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out)
	prompts.PrintResult(out, []prompts.ResultField{
		{Label: "Root", Value: sess.Graph.Root()},
		prompts.Field("Classes", len(classes)),
		prompts.Field("Self-contained", selfContained),
	}, "")
	return nil
}
