package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

// respondError maps the domain error taxonomy onto structured JSON with a
// machine-checkable error kind. Clients can tell "fix your input" (400)
// from "try again later" (500/503) from "does not exist" (404).
func respondError(c *gin.Context, err error) {
	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "validation_error",
			"message": "Invalid request",
			"details": vErr.Fields,
		})
		return
	}
	var tErr *domain.TransitionError
	if errors.As(err, &tErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_transition",
			"message": tErr.Error(),
		})
		return
	}
	if errors.Is(err, domain.ErrSignatureMismatch) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "signature_mismatch",
			"message": "Payment verification failed",
		})
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Not found",
		})
		return
	}
	if errors.Is(err, domain.ErrGatewayUnavailable) {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":   "gateway_unavailable",
			"message": "Payment gateway unavailable, try again later",
		})
		return
	}
	var cErr *domain.ConfigurationError
	if errors.As(err, &cErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "configuration_error",
			"message": cErr.Error(),
		})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "Something went wrong",
	})
}
