// Package instrumentation provides OpenTelemetry metrics with a Prometheus
// exporter: tool invocations, Gmail API operations and LLM completions.
package instrumentation
