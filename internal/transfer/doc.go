// Package transfer moves scripts between the repository and the filesystem.
//
// Export renders a script as plain text, YAML, or PDF and writes it to a
// path picked by a Chooser. Import asks the Chooser for an English and a
// Japanese file, decodes both, and stores them as one script. Both return
// an Outcome value: success, cancelled, or failure. Cancellation is a normal
// result, never an error.
package transfer
