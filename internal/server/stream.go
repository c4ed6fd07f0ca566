package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toolate28/spiralsafe-mono/internal/model"
)

// clientQueueSize bounds each live client's backlog. When a client falls
// this far behind, new entries are dropped for that client only; the tailer
// and every other client are unaffected.
const clientQueueSize = 256

// heartbeatInterval paces SSE comment frames so proxies keep idle
// connections open.
const heartbeatInterval = 15 * time.Second

// subscribeQueued bridges the tailer's synchronous callback to a buffered
// per-client channel. The callback never blocks: overflow drops the entry
// for this client and bumps the shared counter.
func (s *Server) subscribeQueued() (<-chan model.LogEntry, func()) {
	queue := make(chan model.LogEntry, clientQueueSize)
	unsubscribe := s.tailer.Subscribe(func(e model.LogEntry) {
		select {
		case queue <- e:
		default:
			s.dropped.Add(1)
		}
	})
	return queue, unsubscribe
}

// handleStream serves Server-Sent Events: one data frame per entry, in emit
// order, with periodic comment-line heartbeats.
func (s *Server) handleStream(c *gin.Context) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.String(http.StatusInternalServerError, "streaming unsupported")
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	queue, unsubscribe := s.subscribeQueued()
	defer unsubscribe()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	ctx := c.Request.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case entry := <-queue:
			payload, err := json.Marshal(entry)
			if err != nil {
				slog.Warn("sse encode failed", "error", err)
				continue
			}
			if _, err := c.Writer.WriteString("data: " + string(payload) + "\n\n"); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := c.Writer.WriteString(": keepalive\n\n"); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}
