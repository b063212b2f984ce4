// Package config loads, normalizes, and validates stacks configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STACKS_CATALOG. The Config type centralizes every knob the CLI needs,
// allowing the catalog file, thumbnail root, and log directory to be
// discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
