package speech

import (
	"context"
	"log/slog"

	"storycast/internal/logging"
	"storycast/internal/textnorm"
)

// Tier identifies which measurement strategy produced a duration.
type Tier int

const (
	// TierUnmeasured means every strategy failed; the duration is 0 and
	// must not be added to the running total.
	TierUnmeasured Tier = iota
	// TierProbed reads the container metadata without decoding.
	TierProbed
	// TierDecoded decodes the file fully and reads the decoded duration.
	TierDecoded
	// TierEstimated derives a duration from word count at 150 words/minute.
	TierEstimated
)

func (t Tier) String() string {
	switch t {
	case TierProbed:
		return "probed"
	case TierDecoded:
		return "decoded"
	case TierEstimated:
		return "estimated"
	default:
		return "unmeasured"
	}
}

// Measurement is the tagged result of the duration fallback chain.
type Measurement struct {
	Seconds float64
	Tier    Tier
}

// Usable reports whether the measurement may update the running total.
func (m Measurement) Usable() bool {
	return m.Tier != TierUnmeasured && m.Seconds > 0
}

// readingRate is the assumed narration speed for the estimation tier.
const readingRate = 150.0 // words per minute

// Measurer resolves clip durations through the probe → decode → estimate
// fallback chain.
type Measurer struct {
	probe  func(ctx context.Context, path string) (float64, error)
	decode func(ctx context.Context, path string) (float64, error)
	logger *slog.Logger
}

// NewMeasurer wires the fast (probe) and slow (decode) duration strategies.
func NewMeasurer(
	probe func(ctx context.Context, path string) (float64, error),
	decode func(ctx context.Context, path string) (float64, error),
	logger *slog.Logger,
) *Measurer {
	return &Measurer{probe: probe, decode: decode, logger: logging.NewComponentLogger(logger, "measure")}
}

// Measure determines the duration of a just-synthesized clip. The text that
// produced the clip feeds the estimation tier when both media-based tiers
// fail.
func (m *Measurer) Measure(ctx context.Context, path, text string) Measurement {
	if m.probe != nil {
		if seconds, err := m.probe(ctx, path); err == nil && seconds > 0 {
			return Measurement{Seconds: seconds, Tier: TierProbed}
		} else if err != nil {
			m.logger.Debug("probe failed, trying decode", logging.String("path", path), logging.Error(err))
		}
	}

	if m.decode != nil {
		if seconds, err := m.decode(ctx, path); err == nil && seconds > 0 {
			return Measurement{Seconds: seconds, Tier: TierDecoded}
		} else if err != nil {
			m.logger.Debug("decode failed, estimating from text", logging.String("path", path), logging.Error(err))
		}
	}

	words := textnorm.WordCount(text)
	if words == 0 {
		m.logger.Warn("no measurement strategy produced a duration", logging.String("path", path))
		return Measurement{Tier: TierUnmeasured}
	}
	seconds := float64(words) / readingRate * 60
	if seconds < 1 {
		seconds = 1
	}
	m.logger.Warn("using estimated duration",
		logging.String("path", path),
		logging.Int("words", words),
		logging.Float64("seconds", seconds),
	)
	return Measurement{Seconds: seconds, Tier: TierEstimated}
}
