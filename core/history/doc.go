// Package history keeps a log of solve requests. Stores are selected by type
// ("jsonl", "rotating", "sqlite" or "nop") and can be queried by time
// window, policy and player name.
package history
