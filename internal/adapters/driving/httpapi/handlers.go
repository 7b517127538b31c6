package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/sercha-manuals/internal/core/domain"
)

// QueryRequest is the body of the query route.
type QueryRequest struct {
	Query string `json:"query"`
	TopK  int    `json:"topK,omitempty"`
}

// QueryResponse lists the fragments returned for a query.
type QueryResponse struct {
	Fragments []string `json:"fragments"`
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// resolveOwner maps the :id path parameter and principal header to an owner.
func (s *Server) resolveOwner(c *gin.Context) (domain.Owner, bool) {
	var principal *domain.Principal
	if id := strings.TrimSpace(c.GetHeader(PrincipalHeader)); id != "" {
		principal = &domain.Principal{ID: id}
	}

	owner, err := s.ports.Owners.Resolve(c.Request.Context(), c.Param("id"), principal)
	if err != nil {
		writeError(c, err)
		return domain.Owner{}, false
	}
	return owner, true
}

func (s *Server) handleIngest(c *gin.Context) {
	var req domain.IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("decoding body: %w: %w", domain.ErrBadRequest, err))
		return
	}

	owner, ok := s.resolveOwner(c)
	if !ok {
		return
	}

	summary, err := s.ports.Manuals.Ingest(c.Request.Context(), owner, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (s *Server) handleStatus(c *gin.Context) {
	owner, ok := s.resolveOwner(c)
	if !ok {
		return
	}

	status, err := s.ports.Manuals.Status(c.Request.Context(), owner)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleRemoveSource(c *gin.Context) {
	owner, ok := s.resolveOwner(c)
	if !ok {
		return
	}

	status, err := s.ports.Manuals.RemoveSource(c.Request.Context(), owner, c.Param("sourceId"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (s *Server) handleQuery(c *gin.Context) {
	var req QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("decoding body: %w: %w", domain.ErrBadRequest, err))
		return
	}

	owner, ok := s.resolveOwner(c)
	if !ok {
		return
	}

	fragments, err := s.ports.Retrieval.Retrieve(c.Request.Context(), owner, req.Query, req.TopK)
	if err != nil {
		writeError(c, err)
		return
	}
	if fragments == nil {
		fragments = []string{}
	}
	c.JSON(http.StatusOK, QueryResponse{Fragments: fragments})
}

// handleDeleteOwner is the lifecycle hook called when a project or
// conversation is deleted.
func (s *Server) handleDeleteOwner(c *gin.Context) {
	ownerType, err := domain.ParseOwnerType(c.Param("type"))
	if err != nil {
		writeError(c, err)
		return
	}
	owner := domain.Owner{ID: c.Param("id"), Type: ownerType}

	if err := s.ports.Manuals.DeleteOwner(c.Request.Context(), owner); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
