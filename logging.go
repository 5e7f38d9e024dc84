package aibridge

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/studyhall/aibridge/transport"
)

// loggingMiddleware attaches a request ID and emits structured lifecycle
// logs for every provider exchange. Prompts and credentials are never
// logged.
func (c *Client) loggingMiddleware() transport.Middleware {
	return func(next transport.Handler) transport.Handler {
		return transport.HandlerFunc(func(ctx context.Context, req *transport.Request) (*transport.Response, error) {
			if req.RequestID == "" {
				req.RequestID = uuid.New().String()
			}

			start := time.Now()
			resp, err := next.Handle(ctx, req)
			elapsed := time.Since(start)

			if err != nil {
				c.logger.Debug("provider request failed",
					"request_id", req.RequestID,
					"provider", req.Provider,
					"operation", req.Operation,
					"duration_ms", elapsed.Milliseconds(),
					"error", err)
				return nil, err
			}

			c.logger.Debug("provider request completed",
				"request_id", req.RequestID,
				"provider", req.Provider,
				"operation", req.Operation,
				"duration_ms", elapsed.Milliseconds(),
				"total_tokens", resp.Usage.TotalTokens,
				"finish_reason", resp.FinishReason)
			return resp, nil
		})
	}
}
