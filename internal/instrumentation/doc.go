// Package instrumentation provides OpenTelemetry metrics and tracing for
// calaudit.
//
// Metrics can be exported via Prometheus (scraped from a dedicated metrics
// server), OTLP, or stdout for debugging; tracing is off by default and can
// be exported via OTLP or stdout. Configuration comes from environment
// variables so deployments can tune exporters without flag changes.
//
// All recorder methods are nil-safe no-ops when instrumentation is
// disabled, so call sites never need to branch.
package instrumentation
