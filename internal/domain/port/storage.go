package port

import "context"

type KeyframeStorage interface {
	UploadKeyframe(ctx context.Context, objectKey string, filePath string) error
}
