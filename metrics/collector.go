// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package metrics exports dlss manager counters to Prometheus.
package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/dlss"
)

// Source provides counter snapshots. *dlss.Manager implements it.
type Source interface {
	Counters() dlss.Counters
}

var _ Source = (*dlss.Manager)(nil)

// Collector is a prometheus.Collector reading a Source at scrape time.
type Collector struct {
	source Source

	contexts    *prometheus.Desc
	operations  *prometheus.Desc
	initialized *prometheus.Desc
	lastResult  *prometheus.Desc
}

var _ prometheus.Collector = (*Collector)(nil)

// NewCollector returns a collector for source. constLabels are attached to
// every metric, for example the manager session.
func NewCollector(source Source, constLabels prometheus.Labels) *Collector {
	return &Collector{
		source: source,
		contexts: prometheus.NewDesc("dlss_contexts",
			"Number of live feature contexts.", nil, constLabels),
		operations: prometheus.NewDesc("dlss_operations_total",
			"Manager operations by outcome.", []string{"operation", "result"}, constLabels),
		initialized: prometheus.NewDesc("dlss_initialized",
			"Whether the manager is initialized (1) or not (0).", nil, constLabels),
		lastResult: prometheus.NewDesc("dlss_last_backend_result",
			"Most recent native result code returned by the backend (1 is success).", nil, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.contexts
	ch <- c.operations
	ch <- c.initialized
	ch <- c.lastResult
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.source.Counters()

	initialized := 0.0
	if s.Initialized {
		initialized = 1
	}
	ch <- prometheus.MustNewConstMetric(c.initialized, prometheus.GaugeValue, initialized)
	ch <- prometheus.MustNewConstMetric(c.contexts, prometheus.GaugeValue, float64(s.Contexts))
	ch <- prometheus.MustNewConstMetric(c.lastResult, prometheus.GaugeValue, float64(s.LastNGXError))
	for _, op := range s.Operations {
		ch <- prometheus.MustNewConstMetric(c.operations, prometheus.CounterValue,
			float64(op.Count), op.Operation, resultLabel(op.Result))
	}
}

// resultLabel turns "Context not found" into "context_not_found".
func resultLabel(r dlss.Result) string {
	return strings.ReplaceAll(strings.ToLower(r.String()), " ", "_")
}
