package background

import (
	"context"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storycast/internal/config"
	"storycast/internal/media/ffmpeg"
	"storycast/internal/services"
	"storycast/internal/testsupport"
)

// writeFFmpegStub writes an ffmpeg stand-in that fails when its arguments
// match failPattern (a shell case pattern) and otherwise writes the final
// argument as a file.
func writeFFmpegStub(t *testing.T, failPattern string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\n"
	if failPattern != "" {
		script += "case \"$*\" in\n  *" + failPattern + "*) exit 1;;\nesac\n"
	}
	script += "for last; do :; done\necho data > \"$last\"\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func probeStub(byBase map[string]float64) func(context.Context, string) (float64, error) {
	return func(_ context.Context, path string) (float64, error) {
		if seconds, ok := byBase[filepath.Base(path)]; ok {
			if seconds < 0 {
				return 0, errors.New("probe failed for " + path)
			}
			return seconds, nil
		}
		return 0, errors.New("unknown media " + path)
	}
}

func newTestChopper(t *testing.T, failPattern string, durations map[string]float64) (*Chopper, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	runner := ffmpeg.New(writeFFmpegStub(t, failPattern))
	chopper := NewChopper(cfg, runner, probeStub(durations), rand.New(rand.NewSource(11)), nil)
	return chopper, cfg
}

func TestChopSkipsAudioWhenVolumeZero(t *testing.T) {
	durations := map[string]float64{"video.mp4": 100, "background.mp4": 30}
	chopper, cfg := newTestChopper(t, "", durations)
	cfg.Background.AudioVolume = 0

	result, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err != nil {
		t.Fatalf("chop: %v", err)
	}
	if result.Audio != AudioSkipped {
		t.Fatalf("audio outcome = %v, want skipped", result.Audio)
	}
	if _, err := os.Stat(chopper.AudioPath("doc1")); !os.IsNotExist(err) {
		t.Fatalf("no audio file should exist when volume is zero")
	}
}

func TestChopAudioTooShortProducesSilence(t *testing.T) {
	durations := map[string]float64{"audio.mp3": 31, "video.mp4": 100, "background.mp4": 30}
	chopper, _ := newTestChopper(t, "", durations)

	result, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err != nil {
		t.Fatalf("chop: %v", err)
	}
	if result.Audio != AudioSilent {
		t.Fatalf("audio outcome = %v, want silent placeholder", result.Audio)
	}
	if _, err := os.Stat(chopper.AudioPath("doc1")); err != nil {
		t.Fatalf("silent placeholder missing: %v", err)
	}
}

func TestChopAudioExtracts(t *testing.T) {
	durations := map[string]float64{"audio.mp3": 300, "video.mp4": 100, "background.mp4": 30}
	chopper, _ := newTestChopper(t, "", durations)

	result, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err != nil {
		t.Fatalf("chop: %v", err)
	}
	if result.Audio != AudioExtracted {
		t.Fatalf("audio outcome = %v, want extracted", result.Audio)
	}
	if result.AudioWindow.Duration() != 30 {
		t.Fatalf("audio window duration = %d, want 30", result.AudioWindow.Duration())
	}
}

func TestChopAudioExtractionFailureFallsBackToSilence(t *testing.T) {
	durations := map[string]float64{"audio.mp3": 300, "video.mp4": 100, "background.mp4": 30}
	chopper, _ := newTestChopper(t, `"-c:a mp3"`, durations)

	result, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err != nil {
		t.Fatalf("chop: %v", err)
	}
	if result.Audio != AudioSilent {
		t.Fatalf("audio outcome = %v, want silent fallback", result.Audio)
	}
}

func TestChopVideoTooShortIsFatal(t *testing.T) {
	durations := map[string]float64{"audio.mp3": 300, "video.mp4": 31}
	chopper, _ := newTestChopper(t, "", durations)

	_, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err == nil {
		t.Fatalf("expected fatal error for short video source")
	}
	if !errors.Is(err, services.ErrMediaTooShort) {
		t.Fatalf("expected media-too-short marker, got %v", err)
	}
}

func TestChopVideoFastPath(t *testing.T) {
	durations := map[string]float64{"audio.mp3": 300, "video.mp4": 100, "background.mp4": 30}
	chopper, _ := newTestChopper(t, "", durations)

	result, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err != nil {
		t.Fatalf("chop: %v", err)
	}
	if result.VideoStrategy != ffmpeg.StrategyFast {
		t.Fatalf("strategy = %v, want fast", result.VideoStrategy)
	}
	if result.VideoWindow.Duration() != 30 {
		t.Fatalf("video window duration = %d", result.VideoWindow.Duration())
	}
}

func TestChopVideoRetriesTolerant(t *testing.T) {
	durations := map[string]float64{"audio.mp3": 300, "video.mp4": 100, "background.mp4": 30}
	chopper, _ := newTestChopper(t, `"-preset fast"`, durations)

	result, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err != nil {
		t.Fatalf("chop: %v", err)
	}
	if result.VideoStrategy != ffmpeg.StrategyTolerant {
		t.Fatalf("strategy = %v, want tolerant", result.VideoStrategy)
	}
}

func TestChopVideoAllStrategiesExhausted(t *testing.T) {
	durations := map[string]float64{"audio.mp3": 300, "video.mp4": 100}
	chopper, _ := newTestChopper(t, "libx264", durations)

	_, err := chopper.Chop(context.Background(), "doc1", 30, "audio.mp3", "video.mp4")
	if err == nil {
		t.Fatalf("expected fatal error when all strategies fail")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external-tool marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "exhausted") {
		t.Fatalf("unexpected message: %v", err)
	}
	if _, statErr := os.Stat(chopper.VideoPath("doc1")); !os.IsNotExist(statErr) {
		t.Fatalf("partial video file left behind")
	}
}
