// Package speech turns a document into an ordered sequence of narrated
// audio clips.
//
// The assembler enforces a maximum total spoken duration with a one-deep
// rollback, splits oversized units at sentence boundaries with silence
// between chunks, and measures every clip through a probe → decode →
// estimate fallback chain.
package speech
