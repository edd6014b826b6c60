// Package ffprobe wraps duration-oriented media inspection via the ffprobe
// binary. It is the fast tier of duration measurement: container metadata
// only, no decoding.
package ffprobe
