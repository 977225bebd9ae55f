// Package common provides shared HTTP handler utilities.
package common

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/samvyt/rifa/internal/shared/logger"
)

const (
	SSEKeepaliveInterval = 30 * time.Second
	SSEContentType       = "text/event-stream"
)

// SetupSSEResponse sets common SSE response headers.
// CORS headers come from the global middleware.
func SetupSSEResponse(c *gin.Context) {
	c.Header("Content-Type", SSEContentType)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no") // disable nginx buffering
}

// WriteEvent writes one named SSE event with a JSON body and flushes it.
func WriteEvent(c *gin.Context, event string, data any) error {
	body, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to encode sse event: %w", err)
	}
	if _, err := fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, body); err != nil {
		return err
	}
	c.Writer.Flush()
	return nil
}

// Stream relays events to the client until it disconnects or events is closed,
// sending a keepalive comment every interval. It blocks.
func Stream[T any](c *gin.Context, log logger.Interface, event string, events <-chan T, keepalive time.Duration) {
	if keepalive <= 0 {
		keepalive = SSEKeepaliveInterval
	}
	connID := uuid.NewString()

	SetupSSEResponse(c)
	if _, err := c.Writer.WriteString(": connected\n\n"); err != nil {
		log.Warnw("SSE initial write error", "conn_id", connID, "error", err)
		return
	}
	c.Writer.Flush()
	log.Debugw("SSE connection opened", "conn_id", connID, "event", event)

	ticker := time.NewTicker(keepalive)
	defer ticker.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			log.Debugw("SSE connection closed by client", "conn_id", connID)
			return

		case data, ok := <-events:
			if !ok {
				return
			}
			if err := WriteEvent(c, event, data); err != nil {
				log.Warnw("SSE write error", "conn_id", connID, "error", err)
				return
			}

		case <-ticker.C:
			if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
				log.Warnw("SSE keepalive error", "conn_id", connID, "error", err)
				return
			}
			c.Writer.Flush()
		}
	}
}
