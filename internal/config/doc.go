// Package config loads, normalizes, and validates storycast configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STORYCAST_TTS_API_KEY. The Config type centralizes every knob the CLI and
// the assembly pipeline need, so staging directories, synthesizer settings,
// and background selection are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
