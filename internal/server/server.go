// Package server is the HTTP façade over the tailer: discovery, snapshot
// pull, live push (SSE and WebSocket), session switching, and the embedded
// dashboard. It owns transport concerns only; ordering and delivery
// guarantees live in the tailer.
package server

import (
	"embed"
	"io/fs"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/toolate28/spiralsafe-mono/internal/model"
	"github.com/toolate28/spiralsafe-mono/internal/sessions"
	"github.com/toolate28/spiralsafe-mono/internal/store"
	"github.com/toolate28/spiralsafe-mono/internal/tailer"
)

//go:embed all:web
var webFS embed.FS

// Server holds the Gin engine and the viewer's dependencies.
type Server struct {
	engine *gin.Engine
	tailer *tailer.Tailer
	logDir string
	port   string

	// entries dropped across all live clients due to full per-client queues
	dropped atomic.Int64
}

// New creates the viewer façade.
func New(t *tailer.Tailer, logDir, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	engine.RedirectTrailingSlash = false
	engine.RedirectFixedPath = false

	s := &Server{
		engine: engine,
		tailer: t,
		logDir: logDir,
		port:   port,
	}

	s.setupRoutes()
	return s
}

// serveEmbedded reads a file from the embedded FS at startup and serves it
// with the given content type.
func serveEmbedded(webContent fs.FS, name string, contentType string) gin.HandlerFunc {
	data, err := fs.ReadFile(webContent, name)
	return func(c *gin.Context) {
		if err != nil {
			c.String(http.StatusNotFound, "file not found: %s", name)
			return
		}
		c.Data(http.StatusOK, contentType, data)
	}
}

func (s *Server) setupRoutes() {
	webContent, _ := fs.Sub(webFS, "web")

	// Dashboard.
	s.engine.GET("/", serveEmbedded(webContent, "index.html", "text/html; charset=utf-8"))
	s.engine.GET("/style.css", serveEmbedded(webContent, "style.css", "text/css; charset=utf-8"))
	s.engine.GET("/app.js", serveEmbedded(webContent, "app.js", "application/javascript; charset=utf-8"))

	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":          "ok",
			"current_session": s.tailer.CurrentSessionID(),
			"subscribers":     s.tailer.SubscriberCount(),
			"dropped":         s.dropped.Load(),
		})
	})

	// Discovery: every session on disk plus the one currently tracked.
	s.engine.GET("/api/sessions", func(c *gin.Context) {
		infos := sessions.List(s.logDir)
		if infos == nil {
			infos = []model.SessionInfo{}
		}
		c.JSON(http.StatusOK, gin.H{
			"sessions": infos,
			"current":  s.tailer.CurrentSessionID(),
		})
	})

	// Snapshot pull: everything currently parsable for one session, from
	// byte 0. An unknown session is an empty array, not an error.
	s.engine.GET("/api/sessions/:id/entries", func(c *gin.Context) {
		path := store.New(s.logDir).SessionPath(c.Param("id"))
		entries := tailer.ReadAllEntries(path)
		if entries == nil {
			entries = []model.LogEntry{}
		}
		c.JSON(http.StatusOK, entries)
	})

	// Switch the tracked session.
	s.engine.POST("/api/session", func(c *gin.Context) {
		var body struct {
			SessionID string `json:"session_id"`
		}
		if err := c.ShouldBindJSON(&body); err != nil || body.SessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required"})
			return
		}
		s.tailer.SetSession(body.SessionID)
		c.JSON(http.StatusOK, gin.H{"current": body.SessionID})
	})

	// Live push.
	s.engine.GET("/api/stream", s.handleStream)
	s.engine.GET("/ws", s.handleWebSocket)
}

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(":" + s.port)
}

// Handler exposes the engine for httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}
