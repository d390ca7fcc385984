// Package sinks implements concrete progress consumers: Prometheus collectors
// for launch outcomes and a structured zap log. Each sink satisfies the
// progress.Sink interface and is safe for repeated Consume/Close cycles.
package sinks
