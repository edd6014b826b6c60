// Package textnorm prepares thread text for speech synthesis.
//
// Normalize applies the ordered cleanup passes (URL stripping, newline to
// period conversion, abbreviation spacing, duplicate punctuation collapse),
// Chunk splits oversized text at sentence boundaries, and DocumentID
// sanitizes thread identifiers for filesystem use.
package textnorm
