// Package metrics provides the service's observability hooks.
//
// Components receive a Recorder through dependency injection and default to
// NoopRecorder, so no call site needs a nil check:
//
//	h := handlers.NewConfigHandlers(st, gate, handlers.WithRecorder(metrics.NoopRecorder{}))
//
// When monitoring.metrics.enabled is set the server builds a
// PrometheusRecorder on its own registry and exposes it via HTTPHandler.
package metrics
