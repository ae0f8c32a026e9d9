package port

import "context"

type RunPublisher interface {
	PublishRun(ctx context.Context, msg []byte) error
}
