package speech

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"storycast/internal/fileutil"
	"storycast/internal/logging"
	"storycast/internal/services"
	"storycast/internal/textnorm"
)

// splitUnit synthesizes oversized text as sentence-bounded chunks with a
// fixed silence between each pair, concatenates everything into one clip,
// and removes the intermediates. Cleanup failures are logged and swallowed.
func (a *Assembler) splitUnit(ctx context.Context, budget *Budget, result *Result, name, text, dir string) error {
	logger := logging.WithContext(ctx, a.logger)

	chunks := textnorm.Chunk(text, a.engine.MaxChars())
	if len(chunks) == 0 {
		logger.Warn("unit produced no speakable chunks", logging.String("clip", name))
		return nil
	}

	silencePath := filepath.Join(dir, "silence.mp3")
	if err := a.runner.Silence(ctx, a.cfg.TTS.SilenceSeconds, silencePath); err != nil {
		return services.Wrap(services.ErrExternalTool, "speech", "silence", name, err)
	}

	intermediates := []string{silencePath}
	defer func() {
		for _, path := range fileutil.RemoveAllBestEffort(intermediates) {
			logger.Warn("could not remove intermediate file", logging.String("path", path))
		}
	}()

	var parts []string
	var unitSeconds float64
	for idy, chunk := range chunks {
		processed := a.processText(ctx, chunk)
		if textnorm.IsBlank(processed) {
			logger.Warn("skipping blank chunk",
				logging.String("clip", name),
				logging.Int("chunk", idy),
			)
			continue
		}

		partPath := filepath.Join(dir, fmt.Sprintf("%s-%d.part.mp3", name, idy))
		if err := a.engine.Synthesize(ctx, processed, partPath); err != nil {
			return services.Wrap(services.ErrExternalTool, "speech", "synthesize", fmt.Sprintf("%s-%d", name, idy), err)
		}
		intermediates = append(intermediates, partPath)

		m := a.measurer.Measure(ctx, partPath, processed)
		if m.Usable() {
			unitSeconds += m.Seconds
		}
		parts = append(parts, partPath)
	}

	if len(parts) == 0 {
		logger.Warn("all chunks were blank after normalization", logging.String("clip", name))
		return nil
	}

	listPath := filepath.Join(dir, name+".list.txt")
	if err := os.WriteFile(listPath, []byte(concatList(parts, silencePath)), 0o644); err != nil {
		return services.Wrap(services.ErrTransient, "speech", "concat list", name, err)
	}
	intermediates = append(intermediates, listPath)

	outPath := filepath.Join(dir, name+".mp3")
	if err := a.runner.Concat(ctx, listPath, outPath); err != nil {
		return services.Wrap(services.ErrExternalTool, "speech", "concat", name, err)
	}

	// The whole unit is one rollback candidate: a later rollback must undo
	// every chunk, not just the last one.
	if unitSeconds > 0 {
		budget.Commit(unitSeconds)
	} else {
		budget.SkipUnmeasured()
	}

	result.Clips = append(result.Clips, Clip{Name: name, Path: outPath, Seconds: unitSeconds})
	return nil
}

// concatList renders concat-demuxer syntax: parts in order with the silence
// file between every pair. Paths are relative to the list file's directory.
func concatList(parts []string, silencePath string) string {
	var b strings.Builder
	for i, part := range parts {
		fmt.Fprintf(&b, "file '%s'\n", filepath.Base(part))
		if i < len(parts)-1 {
			fmt.Fprintf(&b, "file '%s'\n", filepath.Base(silencePath))
		}
	}
	return b.String()
}
