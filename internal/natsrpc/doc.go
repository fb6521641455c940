// Package natsrpc carries dispatcher operations over NATS request/reply.
//
// Each operation listens on "<prefix>.<operation>" (for example
// "taiyaku.search-scripts"). Request payloads are JSON objects checked
// against a JSON Schema before they reach the dispatcher; replies are an
// Envelope. The package can also run an embedded NATS server for
// single-host setups.
package natsrpc
