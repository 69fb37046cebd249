package async

import (
	"context"

	"github.com/secmon-lab/arcsight-connector/pkg/utils/errutil"
	"github.com/secmon-lab/arcsight-connector/pkg/utils/logging"
)

// Dispatch runs handler in a new goroutine with a background context that keeps
// the caller's logger. Errors and panics are logged, never propagated.
func Dispatch(ctx context.Context, handler func(ctx context.Context) error) {
	bgCtx := logging.With(context.Background(), logging.From(ctx))

	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.From(bgCtx).Error("panic in async handler", "panic", r)
			}
		}()

		if err := handler(bgCtx); err != nil {
			errutil.Handle(bgCtx, err, "async handler failed")
		}
	}()
}
