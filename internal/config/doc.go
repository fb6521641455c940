// Package config loads, normalizes, and validates taiyaku configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// TAIYAKU_API_TOKEN. The Config type centralizes every knob the daemon and CLI
// need: where the database lives, which driver and schema generation to use,
// how logs rotate, and which transports the daemon exposes.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
