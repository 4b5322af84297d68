package kit

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"
)

// Logging returns a middleware that logs every endpoint call with its
// duration and transport.
func Logging(logger *slog.Logger) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (any, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			dur := time.Since(start)

			if err != nil {
				logger.ErrorContext(ctx, "call failed",
					"transport", GetTransport(ctx),
					"duration_ms", dur.Milliseconds(),
					"error", err)
			} else {
				logger.DebugContext(ctx, "call ok",
					"transport", GetTransport(ctx),
					"duration_ms", dur.Milliseconds())
			}
			return resp, err
		}
	}
}

// Recovery returns a middleware that catches panics in downstream endpoints
// and converts them into errors instead of crashing the process.
func Recovery(logger *slog.Logger) Middleware {
	return func(next Endpoint) Endpoint {
		return func(ctx context.Context, req any) (resp any, err error) {
			defer func() {
				if r := recover(); r != nil {
					logger.ErrorContext(ctx, "endpoint panic recovered",
						"panic", r,
						"stack", string(debug.Stack()))
					err = fmt.Errorf("internal error: %v", r)
				}
			}()
			return next(ctx, req)
		}
	}
}
