package background

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"math/rand"
	"os"
	"path/filepath"

	"storycast/internal/config"
	"storycast/internal/fileutil"
	"storycast/internal/logging"
	"storycast/internal/media/ffmpeg"
	"storycast/internal/services"
)

// probeMargin is the extra source material, in seconds, required beyond the
// requested duration before extraction is attempted.
const probeMargin = 2

// AudioOutcome describes how the background audio was produced.
type AudioOutcome int

const (
	// AudioSkipped means the configured volume was zero; no file exists.
	AudioSkipped AudioOutcome = iota
	// AudioExtracted means a window was cut from the source.
	AudioExtracted
	// AudioSilent means a silent placeholder of the requested duration was
	// generated instead.
	AudioSilent
)

// Result reports the windows and strategies used for one chop.
type Result struct {
	Audio         AudioOutcome
	AudioWindow   Window
	VideoWindow   Window
	VideoStrategy ffmpeg.Strategy
}

// Chopper extracts background audio and video segments of a required
// duration from longer source files.
type Chopper struct {
	cfg    *config.Config
	runner *ffmpeg.Runner
	probe  func(ctx context.Context, path string) (float64, error)
	rng    *rand.Rand
	logger *slog.Logger
}

// NewChopper constructs a chopper. probe supplies source durations; a nil
// rng uses the global random source.
func NewChopper(cfg *config.Config, runner *ffmpeg.Runner, probe func(ctx context.Context, path string) (float64, error), rng *rand.Rand, logger *slog.Logger) *Chopper {
	return &Chopper{
		cfg:    cfg,
		runner: runner,
		probe:  probe,
		rng:    rng,
		logger: logging.NewComponentLogger(logger, "background"),
	}
}

// AudioPath returns where the chopped background audio lands for a document.
func (c *Chopper) AudioPath(documentID string) string {
	return filepath.Join(c.cfg.WorkDir(documentID), "background.mp3")
}

// VideoPath returns where the chopped background video lands for a document.
func (c *Chopper) VideoPath(documentID string) string {
	return filepath.Join(c.cfg.WorkDir(documentID), "background.mp4")
}

// Chop produces the background audio and video for a document. needSeconds
// is the spoken duration the backgrounds must cover; it is rounded up to
// whole seconds. Audio degrades to a silent placeholder when the source is
// too short or extraction fails; video failure is fatal.
func (c *Chopper) Chop(ctx context.Context, documentID string, needSeconds float64, audioSource, videoSource string) (Result, error) {
	need := int(math.Ceil(needSeconds))
	if need <= 0 {
		need = 1
	}

	if err := os.MkdirAll(c.cfg.WorkDir(documentID), 0o755); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "background", "workdir", documentID, err)
	}

	var result Result
	var err error
	result.Audio, result.AudioWindow, err = c.chopAudio(ctx, need, audioSource, c.AudioPath(documentID))
	if err != nil {
		return result, err
	}

	result.VideoWindow, result.VideoStrategy, err = c.chopVideo(ctx, need, videoSource, c.VideoPath(documentID))
	if err != nil {
		return result, err
	}
	return result, nil
}

func (c *Chopper) chopAudio(ctx context.Context, need int, source, output string) (AudioOutcome, Window, error) {
	logger := logging.WithContext(ctx, c.logger)

	if c.cfg.Background.AudioVolume == 0 {
		logger.Info("background audio volume is zero, skipping extraction")
		return AudioSkipped, Window{}, nil
	}

	seconds, err := c.probe(ctx, source)
	if err != nil {
		logger.Warn("audio source probe failed, using silent placeholder",
			logging.String("source", source), logging.Error(err))
		return c.silentAudio(ctx, need, output)
	}
	if seconds <= float64(need+probeMargin) {
		logger.Warn("audio source too short, using silent placeholder",
			logging.Float64("source_seconds", seconds),
			logging.Int("need_seconds", need),
		)
		return c.silentAudio(ctx, need, output)
	}

	window, err := SelectWindow(need, int(seconds), c.rng)
	if err != nil {
		logger.Warn("audio window selection failed, using silent placeholder", logging.Error(err))
		return c.silentAudio(ctx, need, output)
	}

	if err := c.runner.ExtractAudio(ctx, source, window.Start, need, output); err != nil || !fileutil.NonEmpty(output) {
		logger.Warn("audio extraction failed, using silent placeholder",
			logging.String("source", source), logging.Error(err))
		return c.silentAudio(ctx, need, output)
	}

	logger.Info("background audio chopped",
		logging.Int("start", window.Start),
		logging.Int("end", window.End),
	)
	return AudioExtracted, window, nil
}

func (c *Chopper) silentAudio(ctx context.Context, need int, output string) (AudioOutcome, Window, error) {
	if err := c.runner.Silence(ctx, float64(need), output); err != nil {
		return AudioSilent, Window{}, services.Wrap(services.ErrExternalTool, "background", "silent placeholder",
			fmt.Sprintf("need %ds", need), err)
	}
	return AudioSilent, Window{}, nil
}

func (c *Chopper) chopVideo(ctx context.Context, need int, source, output string) (Window, ffmpeg.Strategy, error) {
	logger := logging.WithContext(ctx, c.logger)

	seconds, err := c.probe(ctx, source)
	if err != nil {
		return Window{}, ffmpeg.StrategyFast, services.Wrap(services.ErrExternalTool, "background", "probe video", source, err)
	}
	if seconds <= float64(need+probeMargin) {
		return Window{}, ffmpeg.StrategyFast, services.Wrap(services.ErrMediaTooShort, "background", "video source",
			fmt.Sprintf("%s has %.1fs, need %ds", source, seconds, need), nil)
	}

	window, err := SelectWindow(need, int(seconds), c.rng)
	if err != nil {
		return Window{}, ffmpeg.StrategyFast, err
	}

	for _, strategy := range []ffmpeg.Strategy{ffmpeg.StrategyFast, ffmpeg.StrategyTolerant} {
		extractErr := c.runner.ExtractVideo(ctx, source, window.Start, need, output, strategy)
		if extractErr == nil && c.verifyVideo(ctx, output) {
			logger.Info("background video chopped",
				logging.Int("start", window.Start),
				logging.Int("end", window.End),
				logging.String("strategy", strategy.String()),
			)
			return window, strategy, nil
		}
		logger.Warn("video extraction attempt failed",
			logging.String("strategy", strategy.String()),
			logging.Error(extractErr),
		)
	}

	// No usable video; do not leave a partial file behind.
	_ = os.Remove(output)
	return window, ffmpeg.StrategyTolerant, services.Wrap(services.ErrExternalTool, "background", "extract video",
		fmt.Sprintf("%s: all strategies exhausted for %ds window", source, need), nil)
}

// verifyVideo checks the extracted file exists, is non-empty, and reports a
// positive duration.
func (c *Chopper) verifyVideo(ctx context.Context, output string) bool {
	if !fileutil.NonEmpty(output) {
		return false
	}
	seconds, err := c.probe(ctx, output)
	return err == nil && seconds > 0
}
