package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"machine-sales-backend/internal/auth"
	"machine-sales-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store store.Store
	auth  *auth.Service
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, authSvc *auth.Service) *Handler {
	return &Handler{store: s, auth: authSvc}
}

// idParam parses the :id path parameter; on failure it writes a 400 response
// and reports false.
func idParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
