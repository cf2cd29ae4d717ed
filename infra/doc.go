// Package infra groups the adapters that move solve outcomes out of the
// process: the MQTT publisher, the metrics sinks, error reporting and the
// zerolog backend. They implement interfaces owned by core/ and are wired
// together by app.
package infra
