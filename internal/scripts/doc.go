// Package scripts is the script repository: it owns the scripts table and
// every create, read, update, delete, and search statement issued against it.
//
// Two table layouts exist in the wild. The titled generation stores a title
// next to the English and Japanese texts; the untitled generation does not.
// Open inspects the table actually present and fixes the Generation for the
// lifetime of the Repository, so no call ever branches on guesswork.
//
// Every operation is exactly one statement routed through store.Engine, which
// serializes execution. Update and Delete report affected-row counts instead
// of a not-found error. Missing English or Japanese text is rejected with a
// *ValidationError before any statement is issued.
package scripts
