package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/cli"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/config"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/ffmpeg"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/framestore"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/metrics"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/progress"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/tracing"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/vision"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/usecase"
	"github.com/fiapx/fiapx-keyframe-extractor/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args, os.Stdout, os.Stderr))
}

// run returns the process exit code. Human readable output goes to stdout,
// structured logs to stderr.
func run(args []string, stdout, stderr io.Writer) int {
	program := filepath.Base(args[0])
	opts, err := cli.Parse(program, args[1:], stdout)
	if errors.Is(err, cli.ErrHelp) {
		return 0
	}
	if err != nil {
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 1
	}

	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(stderr, "init logger: %v\n", err)
		return 1
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing (non-fatal if the collector is unavailable)
	if cfg.JaegerEndpoint != "" {
		tp, err := tracing.InitTracer(ctx, cfg.JaegerEndpoint)
		if err != nil {
			log.Warn("tracing init failed, continuing without tracing", zap.Error(err))
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				tp.Shutdown(shutdownCtx)
			}()
		}
	}

	fmt.Fprintf(stdout, "OpenCV %s\n", vision.OpenCVVersion())
	fmt.Fprintf(stdout, "Filename: %s\n", opts.Input)

	src, err := newOpener(cfg, log).Open(ctx, opts.Input)
	if err != nil {
		fmt.Fprintln(stdout, "Cannot open the video file.")
		log.Error("open video", zap.String("input", opts.Input), zap.Error(err))
		return 1
	}
	defer src.Close()

	fmt.Fprintf(stdout, "Frame count: %d. FPS: %s\n", src.FrameCount(), strconv.FormatFloat(src.FPS(), 'g', 6, 64))
	fmt.Fprintf(stdout, "Nth second: %d\n", opts.NthSecond)
	fmt.Fprintf(stdout, "Diff threshold: %s\n", strconv.FormatFloat(opts.Threshold, 'g', 6, 64))

	writer := framestore.NewWriter(cfg.OutputDir, cfg.JPEGQuality, log)
	if err := writer.CheckOutputDir(); err != nil {
		fmt.Fprintf(stdout, "Output directory %s does not exist.\n", cfg.OutputDir)
		log.Error("output directory", zap.Error(err))
		return 1
	}

	sinks, err := newSinks(ctx, cfg, log)
	if err != nil {
		log.Error("configure sinks", zap.Error(err))
		return 1
	}
	defer sinks.Close()

	extractor := vision.NewSURFExtractor(cfg.HessianThreshold)
	defer extractor.Close()
	matcher := newMatcher(cfg)
	defer matcher.Close()

	var bar port.Progress = progress.Nop{}
	if cfg.Progress {
		bar = progress.NewBar(stdout)
	}

	scan := usecase.NewScanVideoUseCase(
		usecase.NewScorer(extractor, matcher, cfg.RatioThreshold),
		writer, bar, log,
		usecase.ScanVideoConfig{LegacyFPSWrap: cfg.LegacyFPSWrap},
	)

	publish := usecase.NewPublishRunUseCase(
		sinks.archiver, sinks.storage, sinks.repo, sinks.publisher,
		log,
		usecase.PublishRunConfig{ArchivePath: cfg.ArchivePath},
	)

	r := entity.NewRun(opts.Input, opts.NthSecond, opts.Threshold)
	exitCode := 0
	if err := scan.Execute(ctx, src, r); err != nil {
		fmt.Fprintln(stdout, scanMessage(err))
		exitCode = 1
	} else if err := publish.Execute(ctx, r); err != nil {
		log.Error("publish run", zap.String("run_id", r.ID.String()), zap.Error(err))
		exitCode = 1
	}

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := metrics.Push(pushCtx, cfg.PushgatewayURL, r.ID.String()); err != nil {
			log.Warn("push metrics", zap.Error(err))
		}
	}
	return exitCode
}

func newOpener(cfg *config.Config, log *zap.Logger) port.VideoOpener {
	if cfg.Decoder == config.DecoderFFmpeg {
		return ffmpeg.NewOpener(log)
	}
	return vision.NewOpener(log)
}

func newMatcher(cfg *config.Config) *vision.Matcher {
	if cfg.Matcher == config.MatcherBruteForce {
		return vision.NewBruteForceMatcher()
	}
	return vision.NewFLANNMatcher()
}

// scanMessage is the one-line report printed when a scan aborts.
func scanMessage(err error) string {
	switch {
	case errors.Is(err, usecase.ErrInvalidStride):
		return "Invalid sampling interval: " + err.Error()
	case errors.Is(err, usecase.ErrFirstFrame):
		return "Failed to extract the first frame."
	case errors.Is(err, port.ErrDecodeFrame):
		return "Failed to extract a frame."
	case errors.Is(err, framestore.ErrOutputDirMissing):
		return "Output directory does not exist."
	case errors.Is(err, context.Canceled):
		return "Interrupted."
	default:
		return "Scan failed: " + err.Error()
	}
}
