package postgres

import (
	"context"
	"fmt"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RunRepository is an append-only ledger of finished runs. Nothing in the
// extractor reads it back.
type RunRepository struct {
	pool *pgxpool.Pool
}

func NewRunRepository(pool *pgxpool.Pool) *RunRepository {
	return &RunRepository{pool: pool}
}

func (r *RunRepository) Save(ctx context.Context, run *entity.Run) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO keyframe_runs (
			id, input, nth_second, threshold, frame_count, fps, nth_frame,
			status, comparisons, skipped, archive_path, error_message,
			started_at, completed_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err = tx.Exec(ctx, query,
		run.ID, run.Input, run.NthSecond, run.Threshold, run.FrameCount,
		run.FPS, run.NthFrame, string(run.Status), run.Comparisons,
		run.Skipped, run.ArchivePath, run.Error,
		run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	if len(run.Keyframes) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"keyframes"},
			[]string{"run_id", "frame_index", "match_ratio", "path", "object_key"},
			pgx.CopyFromSlice(len(run.Keyframes), func(i int) ([]any, error) {
				k := run.Keyframes[i]
				return []any{run.ID, k.FrameIndex, k.MatchRatio, k.Path, k.ObjectKey}, nil
			}),
		)
		if err != nil {
			return fmt.Errorf("insert keyframes: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit run: %w", err)
	}
	return nil
}
