package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
)

// Strategy selects how aggressively an extraction trades speed for
// tolerance of damaged or oddly indexed sources.
type Strategy int

const (
	// StrategyFast seeks before demuxing and uses a fast encode preset.
	StrategyFast Strategy = iota
	// StrategyTolerant decodes from the start of the file and seeks on
	// decoded frames. Slower, but survives sources the fast path cannot.
	StrategyTolerant
)

func (s Strategy) String() string {
	if s == StrategyTolerant {
		return "tolerant"
	}
	return "fast"
}

// Runner invokes the ffmpeg binary for extraction and synthesis-support
// operations.
type Runner struct {
	binary string
}

// New constructs a Runner. An empty binary falls back to "ffmpeg" on PATH.
func New(binary string) *Runner {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffmpeg"
	}
	return &Runner{binary: binary}
}

// ExtractAudio copies a time window out of an audio source, re-encoding to
// mp3 at top VBR quality.
func (r *Runner) ExtractAudio(ctx context.Context, input string, start, duration int, output string) error {
	return r.run(ctx,
		"-y",
		"-ss", strconv.Itoa(start),
		"-i", input,
		"-t", strconv.Itoa(duration),
		"-c:a", "mp3",
		"-q:a", "0",
		output,
	)
}

// ExtractVideo copies a time window out of a video source using the given
// strategy.
func (r *Runner) ExtractVideo(ctx context.Context, input string, start, duration int, output string, strategy Strategy) error {
	switch strategy {
	case StrategyTolerant:
		// Input-side seek: decode from the beginning for frame-accurate
		// cuts on sources with sparse keyframes.
		return r.run(ctx,
			"-y",
			"-i", input,
			"-ss", strconv.Itoa(start),
			"-t", strconv.Itoa(duration),
			"-c:v", "libx264",
			"-preset", "veryfast",
			"-crf", "23",
			"-c:a", "aac",
			output,
		)
	default:
		return r.run(ctx,
			"-y",
			"-ss", strconv.Itoa(start),
			"-i", input,
			"-t", strconv.Itoa(duration),
			"-c:v", "libx264",
			"-preset", "fast",
			"-crf", "22",
			output,
		)
	}
}

// Silence writes a silent stereo audio file of the given duration.
func (r *Runner) Silence(ctx context.Context, seconds float64, output string) error {
	if seconds <= 0 {
		return errors.New("ffmpeg silence: duration must be positive")
	}
	return r.run(ctx,
		"-y",
		"-f", "lavfi",
		"-i", "anullsrc=r=44100:cl=stereo",
		"-t", strconv.FormatFloat(seconds, 'f', -1, 64),
		output,
	)
}

// Concat stitches the files listed in listPath (concat demuxer syntax) into
// one output without re-encoding.
func (r *Runner) Concat(ctx context.Context, listPath, output string) error {
	return r.run(ctx,
		"-f", "concat",
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		output,
	)
}

var decodeTimePattern = regexp.MustCompile(`time=(\d+):(\d{2}):(\d{2}(?:\.\d+)?)`)

// DecodeDuration decodes path fully and reports the decoded duration in
// seconds. This is the slow measurement tier, used when container metadata
// carries no duration.
func (r *Runner) DecodeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, r.binary, "-i", path, "-f", "null", "-")
	output, err := cmd.CombinedOutput()
	// ffmpeg exits zero on a full decode; the progress lines we need are on
	// stderr either way.
	matches := decodeTimePattern.FindAllStringSubmatch(string(output), -1)
	if len(matches) == 0 {
		if err != nil {
			return 0, fmt.Errorf("ffmpeg decode: %w: %s", err, lastLine(output))
		}
		return 0, fmt.Errorf("ffmpeg decode: no progress timestamps for %s", path)
	}
	last := matches[len(matches)-1]
	hours, _ := strconv.ParseFloat(last[1], 64)
	minutes, _ := strconv.ParseFloat(last[2], 64)
	seconds, _ := strconv.ParseFloat(last[3], 64)
	total := hours*3600 + minutes*60 + seconds
	if total <= 0 {
		return 0, fmt.Errorf("ffmpeg decode: zero duration for %s", path)
	}
	return total, nil
}

func (r *Runner) run(ctx context.Context, args ...string) error {
	cmd := exec.CommandContext(ctx, r.binary, args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg %s: %w: %s", args[len(args)-1], err, lastLine(output))
	}
	return nil
}

func lastLine(output []byte) string {
	lines := strings.Split(strings.TrimSpace(string(output)), "\n")
	if len(lines) == 0 {
		return ""
	}
	return strings.TrimSpace(lines[len(lines)-1])
}
