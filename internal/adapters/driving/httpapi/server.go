// Package httpapi exposes the manual engine over HTTP using gin.
//
// The caller is identified by the X-Principal-ID header. Requests without it
// are treated as guest sessions keyed by the conversation id.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-manuals/internal/core/ports/driving"
)

// PrincipalHeader carries the authenticated principal id.
const PrincipalHeader = "X-Principal-ID"

// Errors returned when required ports are missing.
var (
	ErrMissingManualService = errors.New("httpapi: manual service is required")
	ErrMissingOwnerResolver = errors.New("httpapi: owner resolver is required")
)

// Ports aggregates the driving ports served over HTTP.
type Ports struct {
	Manuals driving.ManualService
	Owners  driving.OwnerResolver

	// Retrieval enables the query route. Optional.
	Retrieval driving.RetrievalService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Manuals == nil {
		return ErrMissingManualService
	}
	if p.Owners == nil {
		return ErrMissingOwnerResolver
	}
	return nil
}

// Server is the HTTP front end of the manual engine.
type Server struct {
	ports  *Ports
	engine *gin.Engine
}

// NewServer creates a server and registers its routes.
func NewServer(ports *Ports) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())

	s := &Server{ports: ports, engine: engine}
	s.registerRoutes()
	return s, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/healthz", s.handleHealth)

	v1 := s.engine.Group("/v1")
	conv := v1.Group("/conversations/:id/manual")
	conv.POST("", s.handleIngest)
	conv.GET("", s.handleStatus)
	conv.DELETE("/sources/:sourceId", s.handleRemoveSource)
	if s.ports.Retrieval != nil {
		conv.POST("/query", s.handleQuery)
	}

	v1.DELETE("/owners/:type/:id/manual", s.handleDeleteOwner)
}

// Run serves HTTP on addr until the context is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		httpServer.Shutdown(shutdownCtx) //nolint:errcheck
	}()

	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
