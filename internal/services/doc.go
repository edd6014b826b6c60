// Package services defines the shared error taxonomy and context annotations
// used across the assembly pipeline.
//
// Sentinel errors distinguish fatal conditions (unusable media, exhausted
// extraction strategies, bad configuration) from transient ones; Wrap tags an
// error with a sentinel plus component/operation context so callers can
// classify failures without string matching.
package services
