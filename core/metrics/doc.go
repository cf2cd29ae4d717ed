// Package metrics defines the sinks that observe the planner. A sink
// records solve outcomes; optional interfaces extend it to per-attempt
// outcomes and per-player minutes. Sinks are selected by type in the
// configuration, and several configured sinks are combined into a
// MultiSink. Implementations live in infra/metrics.
package metrics
