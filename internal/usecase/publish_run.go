package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/metrics"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// PublishRunUseCase hands a finished run to the configured sinks. Every sink
// is optional; a nil port is not used.
type PublishRunUseCase struct {
	archiver    port.Archiver
	storage     port.KeyframeStorage
	repo        port.RunRepository
	publisher   port.RunPublisher
	logger      *zap.Logger
	archivePath string
}

type PublishRunConfig struct {
	ArchivePath string
}

func NewPublishRunUseCase(
	archiver port.Archiver,
	storage port.KeyframeStorage,
	repo port.RunRepository,
	publisher port.RunPublisher,
	logger *zap.Logger,
	cfg PublishRunConfig,
) *PublishRunUseCase {
	return &PublishRunUseCase{
		archiver:    archiver,
		storage:     storage,
		repo:        repo,
		publisher:   publisher,
		logger:      logger,
		archivePath: cfg.ArchivePath,
	}
}

// Execute runs archive, upload, ledger and event in that order. A failing
// sink does not stop the following ones; all failures are returned joined.
func (uc *PublishRunUseCase) Execute(ctx context.Context, run *entity.Run) error {
	tracer := otel.Tracer("usecase")
	ctx, span := tracer.Start(ctx, "PublishRunUseCase.Execute")
	defer span.End()
	span.SetAttributes(attribute.String("run.id", run.ID.String()))

	log := uc.logger.With(zap.String("run_id", run.ID.String()))

	var errs []error
	if uc.archiver != nil && uc.archivePath != "" && len(run.Keyframes) > 0 {
		errs = append(errs, uc.stage(ctx, "archive", log, func(ctx context.Context) error {
			return uc.archive(ctx, run)
		}))
	}
	if uc.storage != nil {
		errs = append(errs, uc.stage(ctx, "upload", log, func(ctx context.Context) error {
			return uc.upload(ctx, run)
		}))
	}
	if uc.repo != nil {
		errs = append(errs, uc.stage(ctx, "ledger", log, func(ctx context.Context) error {
			return uc.repo.Save(ctx, run)
		}))
	}
	if uc.publisher != nil {
		errs = append(errs, uc.stage(ctx, "event", log, func(ctx context.Context) error {
			data, err := json.Marshal(entity.NewKeyframesExtractedMessage(run))
			if err != nil {
				return fmt.Errorf("marshal run message: %w", err)
			}
			return uc.publisher.PublishRun(ctx, data)
		}))
	}

	return errors.Join(errs...)
}

func (uc *PublishRunUseCase) stage(
	ctx context.Context,
	name string,
	log *zap.Logger,
	fn func(ctx context.Context) error,
) error {
	ctx, span := otel.Tracer("usecase").Start(ctx, name)
	defer span.End()

	start := time.Now()
	if err := fn(ctx); err != nil {
		log.Error("sink failed", zap.String("stage", name), zap.Error(err))
		return fmt.Errorf("%s: %w", name, err)
	}
	metrics.StageDuration.WithLabelValues(name).Observe(time.Since(start).Seconds())
	log.Info("sink done", zap.String("stage", name))
	return nil
}

func (uc *PublishRunUseCase) archive(ctx context.Context, run *entity.Run) error {
	if err := uc.archiver.CreateZip(ctx, run.KeyframePaths(), uc.archivePath); err != nil {
		return err
	}
	run.ArchivePath = uc.archivePath
	return nil
}

func (uc *PublishRunUseCase) upload(ctx context.Context, run *entity.Run) error {
	for i := range run.Keyframes {
		k := &run.Keyframes[i]
		key := fmt.Sprintf("%s/%s", run.ID.String(), filepath.Base(k.Path))
		if err := uc.storage.UploadKeyframe(ctx, key, k.Path); err != nil {
			return fmt.Errorf("upload frame %d: %w", k.FrameIndex, err)
		}
		k.ObjectKey = key
	}
	return nil
}
