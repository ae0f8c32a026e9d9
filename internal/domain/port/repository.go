package port

import (
	"context"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/domain/entity"
)

type RunRepository interface {
	Save(ctx context.Context, run *entity.Run) error
}
