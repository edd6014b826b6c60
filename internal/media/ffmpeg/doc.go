// Package ffmpeg wraps the ffmpeg binary for time-ranged extraction, silence
// generation, concat stitching, and full-decode duration measurement.
package ffmpeg
