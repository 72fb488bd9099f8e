// Package prometheus exposes engine metrics as a client_golang collector.
//
// [PrometheusExporter] can be registered on any registry, or mounted
// directly through [PrometheusExporter.Handler]. Counters are named
// scramble_*_total; the one histogram is scramble_validate_latency_seconds.
package prometheus
