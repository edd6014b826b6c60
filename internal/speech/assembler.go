package speech

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"unicode/utf8"

	"storycast/internal/config"
	"storycast/internal/document"
	"storycast/internal/logging"
	"storycast/internal/media/ffmpeg"
	"storycast/internal/services"
	"storycast/internal/textnorm"
)

// Clip is one synthesized audio unit in the output sequence.
type Clip struct {
	Name    string
	Path    string
	Seconds float64
}

// Result reports the outcome of one assembly run.
type Result struct {
	// TotalSeconds is the accumulated spoken duration of all kept clips.
	TotalSeconds float64
	// LastIndex is the index of the last comment (or story part) included
	// in the output. -1 when only the title was synthesized.
	LastIndex int
	Clips     []Clip
}

func (r *Result) dropUnit(name string) {
	for i := len(r.Clips) - 1; i >= 0; i-- {
		if r.Clips[i].Name == name {
			r.Clips = append(r.Clips[:i], r.Clips[i+1:]...)
			return
		}
	}
}

// TranslateFunc translates unit text before normalization. A nil func
// disables translation.
type TranslateFunc func(ctx context.Context, text string) (string, error)

// Assembler converts a document into an ordered sequence of speech clips,
// honoring the maximum total spoken duration.
type Assembler struct {
	cfg       *config.Config
	engine    Engine
	runner    *ffmpeg.Runner
	measurer  *Measurer
	translate TranslateFunc
	logger    *slog.Logger
}

// New constructs an assembler around the given synthesis engine.
func New(cfg *config.Config, engine Engine, runner *ffmpeg.Runner, measurer *Measurer, logger *slog.Logger) *Assembler {
	return &Assembler{
		cfg:      cfg,
		engine:   engine,
		runner:   runner,
		measurer: measurer,
		logger:   logging.NewComponentLogger(logger, "speech"),
	}
}

// SetTranslator installs the optional translation hook.
func (a *Assembler) SetTranslator(fn TranslateFunc) {
	a.translate = fn
}

// ClipDir returns the directory assembly writes clips into for a document.
func (a *Assembler) ClipDir(documentID string) string {
	return filepath.Join(a.cfg.WorkDir(documentID), "mp3")
}

// Run synthesizes the document. The title is always spoken first; comments
// follow in order until the spoken budget is exceeded, at which point the
// last comment is rolled back and excluded. Story mode replaces the comment
// loop with the story body (method 0) or its pre-split parts (method 1, no
// budget enforcement).
func (a *Assembler) Run(ctx context.Context, doc *document.Document) (Result, error) {
	logger := logging.WithContext(ctx, a.logger)

	dir := a.ClipDir(doc.ID())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Result{LastIndex: -1}, services.Wrap(services.ErrConfiguration, "speech", "workdir", dir, err)
	}

	doc.NormalizeComments()
	budget := NewBudget(a.cfg.Thread.MaxTotalSeconds)
	result := Result{LastIndex: -1}

	if err := a.synthesizeUnit(ctx, budget, &result, "title", doc.Title, dir); err != nil {
		return result, err
	}

	if a.cfg.Story.Enabled {
		if err := a.runStory(ctx, budget, &result, doc, dir); err != nil {
			return result, err
		}
		result.TotalSeconds = budget.Total()
		return result, nil
	}

	for i, comment := range doc.Comments {
		if budget.Exceeded() && i > 1 {
			rolled := budget.Rollback()
			result.dropUnit(strconv.Itoa(i - 1))
			result.LastIndex = i - 2
			logger.Info("spoken budget exceeded, rolled back last comment",
				logging.Int("comment", i-1),
				logging.Float64("rolled_seconds", rolled),
				logging.Float64("total_seconds", budget.Total()),
			)
			result.TotalSeconds = budget.Total()
			return result, nil
		}

		name := strconv.Itoa(i)
		var err error
		if utf8.RuneCountInString(comment.Body) > a.engine.MaxChars() {
			err = a.splitUnit(ctx, budget, &result, name, comment.Body, dir)
		} else {
			err = a.synthesizeUnit(ctx, budget, &result, name, comment.Body, dir)
		}
		if err != nil {
			return result, err
		}
		result.LastIndex = i
	}

	result.TotalSeconds = budget.Total()
	return result, nil
}

func (a *Assembler) runStory(ctx context.Context, budget *Budget, result *Result, doc *document.Document, dir string) error {
	switch a.cfg.Story.Method {
	case 1:
		// Pre-split story parts are synthesized independently, with no
		// budget enforcement.
		for i, part := range doc.PostParts {
			name := fmt.Sprintf("postaudio-%d", i)
			if err := a.synthesizeUnit(ctx, budget, result, name, part, dir); err != nil {
				return err
			}
			result.LastIndex = i
		}
		return nil
	default:
		if utf8.RuneCountInString(doc.Post) > a.engine.MaxChars() {
			return a.splitUnit(ctx, budget, result, "postaudio", doc.Post, dir)
		}
		return a.synthesizeUnit(ctx, budget, result, "postaudio", doc.Post, dir)
	}
}

func (a *Assembler) synthesizeUnit(ctx context.Context, budget *Budget, result *Result, name, text, dir string) error {
	logger := logging.WithContext(ctx, a.logger)
	processed := a.processText(ctx, text)
	path := filepath.Join(dir, name+".mp3")

	if err := a.engine.Synthesize(ctx, processed, path); err != nil {
		return services.Wrap(services.ErrExternalTool, "speech", "synthesize", name, err)
	}

	m := a.measurer.Measure(ctx, path, processed)
	if m.Usable() {
		budget.Commit(m.Seconds)
	} else {
		budget.SkipUnmeasured()
	}
	logger.Debug("clip synthesized",
		logging.String("clip", name),
		logging.Float64("seconds", m.Seconds),
		logging.String("tier", m.Tier.String()),
		logging.Float64("total_seconds", budget.Total()),
	)

	result.Clips = append(result.Clips, Clip{Name: name, Path: path, Seconds: m.Seconds})
	return nil
}

func (a *Assembler) processText(ctx context.Context, text string) string {
	if a.translate != nil {
		translated, err := a.translate(ctx, text)
		if err != nil {
			logging.WithContext(ctx, a.logger).Warn("translation failed, using original text", logging.Error(err))
		} else {
			text = translated
		}
	}
	return textnorm.Normalize(text)
}
