// Package daemon owns the long-running taiyaku process.
//
// A Daemon takes the flock-based instance lock, opens the storage engine and
// script repository, and serves the dispatcher over the Unix socket, NATS
// (optional), and a read-only HTTP API (optional). Stop tears everything
// down in reverse order so in-flight statements finish before the engine
// closes.
package daemon
