package httpserver

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tinytelemetry/flapboard/internal/model"
	"github.com/tinytelemetry/flapboard/internal/splitflap"
)

// FrameStore is the narrow hub contract required by the HTTP API.
type FrameStore interface {
	model.SnapshotReader
	model.FrameSource
}

// Server provides an HTTP API for reading the live board.
type Server struct {
	addr      string
	store     FrameStore
	target    time.Time
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates a new HTTP API server.
func NewServer(addr string, store FrameStore, target time.Time) *Server {
	if addr == "" {
		addr = "127.0.0.1:3000"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		store:  store,
		target: target,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/api/health", s.handleHealth)
	r.GET("/api/countdown", s.handleCountdown)
	r.GET("/api/tiles", s.handleTiles)
	r.GET("/api/stream", s.handleStream)
	return r
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)

	s.server = &http.Server{
		Handler:           s.routes(),
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}
	s.addr = listener.Addr().String()

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Addr returns the listen address, resolved once Start has run.
func (s *Server) Addr() string {
	return s.addr
}

// Stop gracefully shuts down the HTTP server. Open streams end when the
// base context is cancelled.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	_, ready := s.store.Latest()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(s.startTime).String(),
		"target": s.target.Format(time.RFC3339),
		"ready":  ready,
	})
}

type countdownResponse struct {
	At        time.Time    `json:"at"`
	Target    time.Time    `json:"target"`
	Labels    model.Labels `json:"labels"`
	Fields    model.Fields `json:"fields"`
	Digits    string       `json:"digits"`
	Remaining string       `json:"remaining"`
}

func newCountdownResponse(f model.Frame) countdownResponse {
	return countdownResponse{
		At:        f.At,
		Target:    f.Target,
		Labels:    f.Fields.Labels(),
		Fields:    f.Fields,
		Digits:    f.Digits.String(),
		Remaining: f.Remaining().Truncate(time.Second).String(),
	}
}

func (s *Server) handleCountdown(c *gin.Context) {
	f, ok := s.store.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame published yet"})
		return
	}
	c.JSON(http.StatusOK, newCountdownResponse(f))
}

type tileResponse struct {
	Index     int     `json:"index"`
	Transform *string `json:"transform"`
	Group     int     `json:"group"`
	Local     int     `json:"local,omitempty"`
	Separator *int    `json:"separator,omitempty"` // colon ordinal, separator tiles only
}

func (s *Server) handleTiles(c *gin.Context) {
	f, ok := s.store.Latest()
	if !ok {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "no frame published yet"})
		return
	}

	tiles := make([]tileResponse, 0, len(f.Tiles))
	for _, t := range f.Tiles {
		slot, err := splitflap.Locate(t.Index)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		tr := tileResponse{Index: t.Index, Group: slot.Group, Local: slot.Local}
		if slot.Group < 0 {
			sep := slot.Separator
			tr.Separator = &sep
		}
		if t.Transformed {
			css := t.Offset.CSS()
			tr.Transform = &css
		}
		tiles = append(tiles, tr)
	}

	c.JSON(http.StatusOK, gin.H{
		"digits": f.Digits.String(),
		"labels": f.Fields.Labels(),
		"tiles":  tiles,
	})
}

// handleStream pushes one "frame" event per publish until the client goes
// away or the server stops.
func (s *Server) handleStream(c *gin.Context) {
	frames, cancel := s.store.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	ctx := c.Request.Context()
	for {
		select {
		case f, ok := <-frames:
			if !ok {
				return
			}
			c.SSEvent("frame", newCountdownResponse(f))
			c.Writer.Flush()
		case <-ctx.Done():
			return
		case <-s.ctx.Done():
			return
		}
	}
}
