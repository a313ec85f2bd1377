// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

package prompts

import (
	"errors"

	"github.com/charmbracelet/huh"
)

// InitAnswers holds the values asked by the init form. Fields set before the
// form runs are shown as defaults.
type InitAnswers struct {
	Model    string
	Root     string
	Output   string
	Emitters []string
	Workers  string
}

// RunInitForm runs the interactive form for the init command.
func RunInitForm(a *InitAnswers, emitters []string) error {
	custom := a.Model != ""
	options := make([]huh.Option[string], len(emitters))
	for i, name := range emitters {
		options[i] = huh.NewOption(name, name)
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[bool]().
				Title("Meta-model").
				Options(
					huh.NewOption("Built-in", false),
					huh.NewOption("Custom JSON Schema", true),
				).
				Value(&custom),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Path to the meta-model").
				Placeholder("./model.json").
				Validate(requiredValidator("model path")).
				Value(&a.Model),
			huh.NewInput().
				Title("Root class").
				Validate(requiredValidator("root class")).
				Value(&a.Root),
		).WithHideFunc(func() bool { return !custom }),
		huh.NewGroup(
			huh.NewInput().
				Title("Output directory").
				Validate(requiredValidator("output directory")).
				Value(&a.Output),
			huh.NewMultiSelect[string]().
				Title("Emitters").
				Options(options...).
				Validate(func(s []string) error {
					if len(s) == 0 {
						return errors.New("select at least one emitter")
					}
					return nil
				}).
				Value(&a.Emitters),
			huh.NewInput().
				Title("Workers").
				Validate(positiveIntValidator("workers")).
				Value(&a.Workers),
		),
	).WithTheme(Theme())
	if err := form.Run(); err != nil {
		return err
	}
	if !custom {
		a.Model, a.Root = "", ""
	}
	return nil
}
