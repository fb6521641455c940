// Package dispatch is the single entry point every transport calls.
//
// A Dispatcher maps each named operation (save-script, search-scripts, ...)
// onto the script repository or the transfer bridge, stamps a correlation
// id on the request, and converts errors into a Failure whose kind survives
// a trip over JSON-RPC or NATS.
package dispatch
