package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrFirstFrame = errors.New("failed to extract the first frame")

type ScanVideoUseCase struct {
	scorer        *Scorer
	writer        port.FrameWriter
	progress      port.Progress
	logger        *zap.Logger
	legacyFPSWrap bool
}

type ScanVideoConfig struct {
	LegacyFPSWrap bool
}

func NewScanVideoUseCase(
	scorer *Scorer,
	writer port.FrameWriter,
	progress port.Progress,
	logger *zap.Logger,
	cfg ScanVideoConfig,
) *ScanVideoUseCase {
	return &ScanVideoUseCase{
		scorer:        scorer,
		writer:        writer,
		progress:      progress,
		logger:        logger,
		legacyFPSWrap: cfg.LegacyFPSWrap,
	}
}

// Execute walks the sampled frames of src, writing every frame whose match
// ratio against the previously sampled frame falls below run.Threshold.
func (uc *ScanVideoUseCase) Execute(ctx context.Context, src port.VideoSource, run *entity.Run) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "ScanVideoUseCase.Execute")
	defer span.End()

	start := time.Now()
	run.FrameCount = src.FrameCount()
	run.FPS = src.FPS()

	span.SetAttributes(
		attribute.String("run.id", run.ID.String()),
		attribute.String("run.input", run.Input),
		attribute.Int("video.frame_count", run.FrameCount),
		attribute.Float64("video.fps", run.FPS),
	)

	log := uc.logger.With(zap.String("run_id", run.ID.String()), zap.String("input", run.Input))

	nth, err := NthFrame(run.FPS, run.NthSecond, uc.legacyFPSWrap)
	if err != nil {
		return uc.fail(run, log, err)
	}
	run.NthFrame = nth

	// Frame 0 is read even when the reported count is too small to compare:
	// some containers report 0 or -1 frames and may still be unreadable.
	previous, err := src.ReadFrame(ctx, 0)
	if err != nil {
		return uc.fail(run, log, fmt.Errorf("%w: %w", ErrFirstFrame, err))
	}

	if run.FrameCount <= 1 {
		log.Info("video too short to compare", zap.Int("frame_count", run.FrameCount))
		uc.complete(run, start)
		return nil
	}

	log.Info("scan started",
		zap.Int("frame_count", run.FrameCount),
		zap.Float64("fps", run.FPS),
		zap.Int("nth_frame", nth),
		zap.Int("candidates", CandidateCount(run.FrameCount, nth)),
	)

	uc.progress.Start(run.FrameCount)
	defer uc.progress.Finish()

	for fi := 1; fi < run.FrameCount; fi++ {
		uc.progress.Set(fi)
		if !Sampled(fi, nth) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return uc.fail(run, log, fmt.Errorf("scan interrupted at frame %d: %w", fi, err))
		}

		current, err := src.ReadFrame(ctx, fi)
		if err != nil {
			return uc.fail(run, log, err)
		}
		metrics.FramesSampledTotal.Inc()

		cmp, err := uc.compare(ctx, previous, current, run.Threshold, log)
		if err != nil {
			return uc.fail(run, log, err)
		}
		run.Record(cmp)

		previous = current
	}

	uc.complete(run, start)
	log.Info("scan completed",
		zap.Int("comparisons", run.Comparisons),
		zap.Int("skipped", run.Skipped),
		zap.Int("keyframes", len(run.Keyframes)),
	)
	return nil
}

func (uc *ScanVideoUseCase) compare(
	ctx context.Context,
	previous, current *entity.Frame,
	threshold float64,
	log *zap.Logger,
) (entity.Comparison, error) {
	ctx, span := otel.Tracer("usecase").Start(ctx, "score_frame",
		trace.WithAttributes(
			attribute.Int("frame.index", current.Index),
			attribute.Int("frame.previous_index", previous.Index),
		),
	)
	defer span.End()

	cmp := entity.Comparison{FrameIndex: current.Index, PreviousIndex: previous.Index}

	score, err := uc.scorer.Score(previous, current)
	cmp.Keypoints = score.Keypoints
	cmp.GoodMatches = score.GoodMatches
	cmp.MatchRatio = score.Ratio
	if errors.Is(err, ErrSkipFrame) {
		cmp.Skipped = true
		metrics.ComparisonsSkippedTotal.Inc()
		log.Debug("comparison skipped", zap.Int("frame", current.Index), zap.Error(err))
		return cmp, nil
	}
	if err != nil {
		return cmp, err
	}

	metrics.MatchRatio.Observe(score.Ratio)
	span.SetAttributes(attribute.Float64("frame.match_ratio", score.Ratio))

	if score.Ratio >= threshold {
		return cmp, nil
	}

	path, err := uc.writer.WriteFrame(ctx, current)
	if err != nil {
		return cmp, fmt.Errorf("write frame %d: %w", current.Index, err)
	}
	cmp.Written = true
	cmp.Path = path
	metrics.KeyframesWrittenTotal.Inc()

	log.Debug("keyframe written",
		zap.Int("frame", current.Index),
		zap.Float64("match_ratio", score.Ratio),
		zap.Int("good_matches", score.GoodMatches),
		zap.Int("keypoints", score.Keypoints),
		zap.String("path", path),
	)
	return cmp, nil
}

func (uc *ScanVideoUseCase) complete(run *entity.Run, start time.Time) {
	run.MarkCompleted()
	metrics.RunsTotal.WithLabelValues("completed").Inc()
	metrics.StageDuration.WithLabelValues("scan").Observe(time.Since(start).Seconds())
}

func (uc *ScanVideoUseCase) fail(run *entity.Run, log *zap.Logger, err error) error {
	run.MarkFailed(err.Error())
	metrics.RunsTotal.WithLabelValues("failed").Inc()
	log.Error("scan failed", zap.Error(err))
	return err
}
