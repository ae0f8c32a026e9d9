package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/port"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/archive"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/config"
	miniostorage "github.com/fiapx/fiapx-keyframe-extractor/internal/infra/minio"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/postgres"
	"github.com/fiapx/fiapx-keyframe-extractor/internal/infra/rabbitmq"
	"github.com/jackc/pgx/v5/pgxpool"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

// sinks holds the optional destinations of a finished run. Unset fields stay
// nil interfaces so the publish use case skips them.
type sinks struct {
	archiver  port.Archiver
	storage   port.KeyframeStorage
	repo      port.RunRepository
	publisher port.RunPublisher
	closers   []func() error
}

// newSinks connects every sink whose configuration is present. Connections are
// made before the scan so a misconfigured sink fails fast.
func newSinks(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *sinks, err error) {
	s := &sinks{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	if cfg.ArchivePath != "" {
		s.archiver = archive.NewZipCreator()
	}

	if cfg.MinIOEndpoint != "" {
		storage, err := miniostorage.NewStorage(miniostorage.StorageConfig{
			Endpoint:  cfg.MinIOEndpoint,
			AccessKey: cfg.MinIOAccessKey,
			SecretKey: cfg.MinIOSecretKey,
			UseSSL:    cfg.MinIOUseSSL,
			Bucket:    cfg.MinIOKeyframeBucket,
		})
		if err != nil {
			return nil, err
		}
		if err := storage.EnsureBucket(ctx); err != nil {
			return nil, fmt.Errorf("ensure minio bucket: %w", err)
		}
		s.storage = storage
	}

	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		s.closers = append(s.closers, func() error { pool.Close(); return nil })
		if err := postgres.RunMigrations(ctx, pool); err != nil {
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		s.repo = postgres.NewRunRepository(pool)
	}

	if cfg.RabbitMQURL != "" {
		conn, err := amqp.Dial(cfg.RabbitMQURL)
		if err != nil {
			return nil, fmt.Errorf("connect to rabbitmq: %w", err)
		}
		s.closers = append(s.closers, conn.Close)
		pub, err := rabbitmq.NewPublisher(conn, cfg.RabbitMQExchange)
		if err != nil {
			return nil, fmt.Errorf("create rabbitmq publisher: %w", err)
		}
		s.closers = append(s.closers, pub.Close)
		s.publisher = rabbitmq.NewRunPublisher(pub, cfg.RabbitMQRoutingKey)
	}

	log.Debug("sinks configured",
		zap.Bool("archive", s.archiver != nil),
		zap.Bool("upload", s.storage != nil),
		zap.Bool("ledger", s.repo != nil),
		zap.Bool("event", s.publisher != nil),
	)
	return s, nil
}

// Close releases connections in reverse order of creation.
func (s *sinks) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
