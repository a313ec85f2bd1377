// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Daco Labs

// Package metrics counts generated cases and exports them in the
// prometheus text format.
package metrics

import (
	"strconv"

	"github.com/dacolabs/testgen/internal/generation"
	"github.com/dacolabs/testgen/internal/version"
	"github.com/prometheus/client_golang/prometheus"
)

// Recorder holds the counters of one generation run on a private registry.
type Recorder struct {
	registry *prometheus.Registry
	cases    *prometheus.CounterVec
	classes  prometheus.Counter
}

// New returns a recorder with its counters registered.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		cases: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "testgen",
			Name:      "cases_total",
			Help:      "Number of generated test cases.",
		}, []string{"kind", "expected"}),
		classes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "testgen",
			Name:      "classes_total",
			Help:      "Number of classes cases were generated for.",
		}),
	}
	build := version.Get()
	info := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "testgen",
		Name:      "build_info",
		Help:      "Build information of the generator that wrote the cases.",
		ConstLabels: prometheus.Labels{
			"version":    build.Version,
			"commit":     build.Commit,
			"go_version": build.GoVersion,
		},
	})
	info.Set(1)
	r.registry.MustRegister(r.cases, r.classes, info)
	return r
}

// ObserveCase counts a generated case.
func (r *Recorder) ObserveCase(c *generation.Case) {
	r.cases.WithLabelValues(c.Kind.String(), strconv.FormatBool(c.Expected)).Inc()
}

// ObserveCases counts the cases and the distinct classes they cover.
func (r *Recorder) ObserveCases(cases []*generation.Case) {
	classes := make(map[string]bool)
	for _, c := range cases {
		r.ObserveCase(c)
		classes[c.Class] = true
	}
	r.classes.Add(float64(len(classes)))
}

// Gatherer exposes the private registry.
func (r *Recorder) Gatherer() prometheus.Gatherer {
	return r.registry
}

// WriteTextfile writes the counters to path for the node exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
