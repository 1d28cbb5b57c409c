package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"machine-sales-backend/internal/auth"
	"machine-sales-backend/internal/store"
)

// writeError maps the store's typed error taxonomy onto HTTP responses. This
// is the only place domain errors become status codes, so every route renders
// the same shapes.
func writeError(c *gin.Context, err error) {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "missing or invalid fields",
			"details": ve.Fields,
		})
		return
	}

	var nf *store.NotFoundError
	if errors.As(err, &nf) {
		c.JSON(http.StatusNotFound, gin.H{"error": nf.Error()})
		return
	}

	var cf *store.ConflictError
	if errors.As(err, &cf) {
		body := gin.H{"error": cf.Message}
		if len(cf.InvalidRefs) > 0 {
			body["invalid_references"] = cf.InvalidRefs
		}
		if len(cf.Dependents) > 0 {
			body["referenced_orders"] = cf.Dependents
		}
		c.JSON(http.StatusConflict, body)
		return
	}

	if errors.Is(err, auth.ErrInvalidCredentials) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	// StorageError and anything unexpected: generic message, details stay in
	// the log only.
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
