// Package main hosts the taiyaku CLI entrypoint and command graph.
//
// The Cobra command tree turns terminal invocations into dispatcher calls
// against a running taiyakud, over the unix socket by default or over NATS
// when --nats is set. Configuration resolution and socket discovery live in
// commandContext so subcommands only deal with flags and output.
package main
