// Copyright 2026 The Lumenary Authors
// SPDX-License-Identifier: Apache-2.0

package telemetry

import (
	"github.com/lumenary/telemetry/lib/events"
	"github.com/lumenary/telemetry/lib/transit"
)

// IntMetric emits an integer-valued metric sample from desc. desc
// should be a package-level *events.MetricMetadata built once via
// events.NewMetricMetadata. Dropped with no allocation if desc.Lod
// exceeds the configured MaxMetricVerbosity.
func IntMetric(desc *events.MetricMetadata, value uint64) {
	d := current.Load()
	if d == nil || !d.metricEnabled(desc.Lod) {
		return
	}
	event := events.IntegerMetricEvent{Desc: desc, Value: value, Ts: d.source.Cycles()}
	emit(d.metricStream, d.source, d.logger, d.sink.OnProcessMetricBlock, func(q *transit.Queue) { q.Push(event) })
}

// FloatMetric emits a floating-point metric sample from desc.
func FloatMetric(desc *events.MetricMetadata, value float64) {
	d := current.Load()
	if d == nil || !d.metricEnabled(desc.Lod) {
		return
	}
	event := events.FloatMetricEvent{Desc: desc, Value: value, Ts: d.source.Cycles()}
	emit(d.metricStream, d.source, d.logger, d.sink.OnProcessMetricBlock, func(q *transit.Queue) { q.Push(event) })
}

func (d *Dispatch) metricEnabled(lod events.Verbosity) bool {
	return lod <= d.settings.MaxMetricVerbosity
}
