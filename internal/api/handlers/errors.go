package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/imoveis/catalog/internal/core/auth"
	"github.com/imoveis/catalog/internal/core/validation"
)

// respondError maps errors shared by every admin endpoint. It reports false
// when the error is not one of them.
func respondError(c *gin.Context, err error) bool {
	switch {
	case errors.Is(err, auth.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case validation.IsValidationError(err):
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation failed",
			"details": validation.GetValidationErrors(err).Errors,
		})
	default:
		return false
	}
	return true
}

func internalError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong"})
}
