// Package logging builds the slog loggers used throughout storycast.
//
// It supports console and JSON output, multi-destination writers, and a
// shared vocabulary of attribute helpers. Component loggers carry a
// "component" attribute the console handler promotes into the message prefix.
package logging
