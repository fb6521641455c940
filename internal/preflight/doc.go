// Package preflight provides readiness checks for the filesystem paths,
// storage backend, and optional services taiyaku depends on.
//
// These checks run in two contexts:
//   - daemonrun calls RunAll before starting the daemon and logs every
//     failing check as a warning.
//   - The CLI "taiyaku doctor" command prints every result.
//
// Each check is gated by its config toggle -- disabled features are skipped.
package preflight
