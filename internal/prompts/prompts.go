// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package prompts provides interactive terminal prompts and styled results for CLI commands.
package prompts

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// Theme returns the shared huh theme used across all CLI forms.
func Theme() *huh.Theme {
	theme := huh.ThemeBase16()
	theme.FieldSeparator = lipgloss.NewStyle().SetString("\n").MarginBottom(1)
	theme.Form.Base = theme.Form.Base.MarginTop(1)
	theme.Focused.Title = theme.Focused.Title.Foreground(lipgloss.Color("#f9ca24"))
	theme.Blurred.Title = theme.Blurred.Title.Foreground(lipgloss.Color("#bababa"))
	return theme
}

// ResultField is a label-value pair for PrintResult.
type ResultField struct {
	Label string
	Value string
}

// Field formats an integer result.
func Field(label string, n int) ResultField {
	return ResultField{Label: label, Value: strconv.Itoa(n)}
}

// PrintResult writes a summary with a checkmark per field and an optional closing message.
// Colors are only rendered when w is a terminal.
func PrintResult(w io.Writer, fields []ResultField, successMsg string) {
	r := lipgloss.NewRenderer(w)
	success := r.NewStyle().Foreground(lipgloss.Color("#27ca3f"))
	label := r.NewStyle().Foreground(lipgloss.Color("#bababa"))
	check := success.Render("✓")

	for _, f := range fields {
		_, _ = fmt.Fprintf(w, "%s %s %s\n", check, label.Render(f.Label+":"), f.Value)
	}
	if successMsg != "" {
		_, _ = fmt.Fprintln(w, success.Render(successMsg))
	}
}

func requiredValidator(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func positiveIntValidator(field string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a positive number", field)
		}
		return nil
	}
}
