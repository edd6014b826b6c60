package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"storycast/internal/background"
	"storycast/internal/catalog"
	"storycast/internal/config"
	"storycast/internal/document"
	"storycast/internal/ledger"
	"storycast/internal/logging"
	"storycast/internal/media/ffmpeg"
	"storycast/internal/media/ffprobe"
	"storycast/internal/services"
	"storycast/internal/speech"
)

func newAssembleCommand(ctx *commandContext) *cobra.Command {
	var audioName string
	var videoName string

	cmd := &cobra.Command{
		Use:   "assemble <document.json>",
		Short: "Synthesize narration and chop backgrounds for a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runAssemble(cmd.Context(), cfg, ctx.ensureLogger(), args[0], audioName, videoName, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&audioName, "audio", "", "Background audio name (overrides config)")
	cmd.Flags().StringVar(&videoName, "video", "", "Background video name (overrides config)")
	return cmd
}

func runAssemble(ctx context.Context, cfg *config.Config, logger *slog.Logger, documentPath, audioName, videoName string, out io.Writer) error {
	doc, err := document.Load(documentPath)
	if err != nil {
		return err
	}
	documentID := doc.ID()

	runID := uuid.NewString()
	ctx = services.WithDocumentID(ctx, documentID)
	ctx = services.WithRunID(ctx, runID)

	if err := os.MkdirAll(cfg.WorkDir(documentID), 0o755); err != nil {
		return fmt.Errorf("create work directory: %w", err)
	}

	// One assembly per document at a time.
	lock := flock.New(cfg.WorkDir(documentID) + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire document lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("document %s is already being assembled", documentID)
	}
	defer func() { _ = lock.Unlock() }()

	var store *ledger.Store
	if cfg.Ledger.Enabled {
		store, err = ledger.Open(cfg)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		run, err := store.Begin(ctx, documentID, doc.Title)
		if err != nil {
			return err
		}
		runID = run.ID
		ctx = services.WithRunID(ctx, runID)
	}

	result, chop, err := assembleDocument(ctx, cfg, logger, doc, audioName, videoName)
	if store != nil {
		if err != nil {
			_ = store.Fail(ctx, runID, err.Error())
		} else {
			_ = store.Complete(ctx, runID, result.TotalSeconds, len(result.Clips), result.LastIndex)
		}
	}
	if err != nil {
		return err
	}

	printAssembleSummary(out, documentID, result, chop)
	return nil
}

func assembleDocument(ctx context.Context, cfg *config.Config, logger *slog.Logger, doc *document.Document, audioName, videoName string) (speech.Result, background.Result, error) {
	engine, err := speech.NewCommandEngine(cfg.TTS)
	if err != nil {
		return speech.Result{}, background.Result{}, err
	}

	runner := ffmpeg.New(cfg.FFmpegBinary())
	probe := func(ctx context.Context, path string) (float64, error) {
		return ffprobe.Duration(ctx, cfg.FFprobeBinary(), path)
	}

	measurer := speech.NewMeasurer(probe, runner.DecodeDuration, logger)
	assembler := speech.New(cfg, engine, runner, measurer, logger)
	if cfg.Thread.PostLang != "" {
		if cfg.Thread.TranslateCommand != "" {
			assembler.SetTranslator(speech.NewCommandTranslator(cfg.Thread.TranslateCommand, cfg.Thread.PostLang))
		} else {
			logger.Warn("post_lang set but translate_command is empty, skipping translation",
				logging.String("post_lang", cfg.Thread.PostLang))
		}
	}

	speechCtx := services.WithStage(ctx, "speech")
	result, err := assembler.Run(speechCtx, doc)
	if err != nil {
		return result, background.Result{}, err
	}

	backgrounds, err := catalog.Load(cfg.Background.CatalogPath)
	if err != nil {
		return result, background.Result{}, err
	}
	if audioName == "" {
		audioName = cfg.Background.AudioName
	}
	if videoName == "" {
		videoName = cfg.Background.VideoName
	}
	audioEntry, err := backgrounds.Pick(catalog.KindAudio, audioName, nil)
	if err != nil {
		return result, background.Result{}, err
	}
	videoEntry, err := backgrounds.Pick(catalog.KindVideo, videoName, nil)
	if err != nil {
		return result, background.Result{}, err
	}

	chopper := background.NewChopper(cfg, runner, probe, nil, logger)
	chopCtx := services.WithStage(ctx, "background")
	chop, err := chopper.Chop(chopCtx, doc.ID(), result.TotalSeconds,
		audioEntry.LocalPath(cfg.Paths.BackgroundsDir, catalog.KindAudio),
		videoEntry.LocalPath(cfg.Paths.BackgroundsDir, catalog.KindVideo),
	)
	if err != nil {
		return result, chop, err
	}
	return result, chop, nil
}

func printAssembleSummary(out io.Writer, documentID string, result speech.Result, chop background.Result) {
	fmt.Fprintf(out, "Assembled document %s\n", documentID)

	rows := [][]string{
		{"Clips", strconv.Itoa(len(result.Clips))},
		{"Total spoken", fmt.Sprintf("%.1fs", result.TotalSeconds)},
		{"Last comment index", strconv.Itoa(result.LastIndex)},
		{"Background audio", describeAudio(chop)},
		{"Background video", chop.VideoStrategy.String() + " extraction"},
	}
	fmt.Fprintln(out, renderTable([]string{"Field", "Value"}, rows))
}

func describeAudio(chop background.Result) string {
	switch chop.Audio {
	case background.AudioSkipped:
		return "skipped (volume 0)"
	case background.AudioSilent:
		return "silent placeholder"
	default:
		return fmt.Sprintf("extracted %ds window", chop.AudioWindow.Duration())
	}
}
