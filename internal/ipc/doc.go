// Package ipc exposes the dispatcher over JSON-RPC on a Unix domain socket
// and ships the matching client used by the CLI.
//
// The server owns the socket file: it removes a stale one on start, restricts
// it to the owner, and on Linux refuses peers running as another user. Errors
// cross the wire as "kind: message" strings; the client turns them back into
// dispatch.Failure values so callers can use errors.Is.
package ipc
