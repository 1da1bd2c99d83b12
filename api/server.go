// Package api serves the instrument state and the chord recognizer as JSON.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/chase3718/fretkeys/chord"
	"github.com/chase3718/fretkeys/fretboard"
)

const shutdownTimeout = 5 * time.Second

// RecognizeRequest is the body of POST /api/v1/recognize. Notes are parsed
// with chord.ParseNote and appended after Pitches.
type RecognizeRequest struct {
	Pitches []int    `json:"pitches"`
	Notes   []string `json:"notes"`
}

type server struct {
	store  *Store
	engine *chord.Engine
	log    *slog.Logger
}

// NewHandler builds the router. A nil engine uses the interval matcher.
func NewHandler(store *Store, engine *chord.Engine, log *slog.Logger) http.Handler {
	if engine == nil {
		engine = chord.New(nil)
	}
	if log == nil {
		log = slog.Default()
	}
	s := &server{store: store, engine: engine, log: log}

	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/health", healthCheck)
	v1 := r.Group("/api/v1")
	{
		v1.GET("/state", s.state)
		v1.POST("/recognize", s.recognize)
		v1.GET("/tunings", listTunings)
	}
	return r
}

func (s *server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.log.Debug("api: request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"took", time.Since(start))
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "fretkeys",
	})
}

func (s *server) state(c *gin.Context) {
	c.JSON(http.StatusOK, s.store.State())
}

func (s *server) recognize(c *gin.Context) {
	var req RecognizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	pitches := append([]int{}, req.Pitches...)
	for _, n := range req.Notes {
		p, err := chord.ParseNote(n)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		pitches = append(pitches, p)
	}
	c.JSON(http.StatusOK, s.engine.Analyze(pitches))
}

func listTunings(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tunings": fretboard.Presets()})
}

// Serve listens on addr until ctx is cancelled, then shuts down gracefully.
func Serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	if log == nil {
		log = slog.Default()
	}
	srv := &http.Server{Addr: addr, Handler: h, ReadHeaderTimeout: 5 * time.Second}

	errc := make(chan error, 1)
	go func() {
		log.Info("api: listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("api: serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("api: shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api: serve %s: %w", addr, err)
	}
	log.Info("api: stopped")
	return nil
}
