package routine

import (
	"context"
	"fmt"

	"github.com/go-slark/proptree/logger"
)

// Go runs fn on the calling goroutine, logging instead of crashing on panic.
func Go(ctx context.Context, fn func()) {
	defer func(ctx context.Context) {
		if r := recover(); r != nil {
			logger.Log(ctx, logger.ErrorLevel, map[string]interface{}{"error": fmt.Sprintf("%+v", r)}, "routine recover")
		}
	}(ctx)
	fn()
}

// GoSafe runs fn on a new goroutine with panic recovery.
func GoSafe(ctx context.Context, fn func()) {
	go Go(ctx, fn)
}
