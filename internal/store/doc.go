// Package store is the storage engine adapter: it owns the single database
// handle and executes parameterized statements on one worker goroutine.
//
// Every Execute and Query call is queued and run strictly in submission
// order, so two writers racing from different transports can never
// interleave. Callers block until their statement has run. A statement that
// has been queued always runs to completion; cancelling the caller's context
// does not abort it.
//
// SQLite (modernc.org/sqlite) is the default engine. Postgres is reachable
// through pgx's database/sql driver; Dialect hides placeholder style,
// identity columns, insert-id retrieval, and column introspection.
//
// Engine failures are returned as *StorageError carrying the driver's
// message unchanged. Nothing here retries.
package store
