package background

import (
	"fmt"
	"math/rand"

	"storycast/internal/services"
)

// Window is a contiguous (start, end) range in integer seconds within a
// background source.
type Window struct {
	Start int
	End   int
}

// Duration returns the window length in seconds.
func (w Window) Duration() int {
	return w.End - w.Start
}

// SelectWindow picks a window of need seconds from a source of total
// seconds, starting at a uniformly random offset that keeps a small safety
// margin from the end of the source. A source no longer than the request
// yields the whole source as a best-effort result; a source with no positive
// duration is fatal.
func SelectWindow(need, total int, rng *rand.Rand) (Window, error) {
	if need <= 0 {
		need = 1
	}

	if total <= need {
		if total > 0 {
			return Window{Start: 0, End: total}, nil
		}
		return Window{}, services.Wrap(services.ErrMediaTooShort, "background", "select window",
			fmt.Sprintf("source has %ds, need %ds", total, need), nil)
	}

	margin := total / 10
	if margin > 2 {
		margin = 2
	}
	maxStart := total - need - margin
	if maxStart < 0 {
		maxStart = total - need
		if maxStart < 0 {
			maxStart = 0
		}
	}

	start := 0
	if maxStart > 0 {
		start = intn(rng, maxStart+1)
	}
	end := start + need
	if end > total {
		end = total
		start = end - need
		if start < 0 {
			start = 0
		}
	}

	if end <= start {
		start = 0
		end = need
		if end > total {
			end = total
		}
		if end <= start {
			return Window{}, services.Wrap(services.ErrMediaTooShort, "background", "select window",
				fmt.Sprintf("unable to produce a valid window from %ds for %ds", total, need), nil)
		}
	}
	return Window{Start: start, End: end}, nil
}

func intn(rng *rand.Rand, n int) int {
	if rng == nil {
		return rand.Intn(n)
	}
	return rng.Intn(n)
}
