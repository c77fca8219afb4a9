package httpserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soorihai2/ssksilks-sub001/internal/domain"
)

const secretMask = "********"

func (h *orderHandlers) readSettings(c *gin.Context) {
	s, err := h.settings.Read(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	masked := *s
	if masked.Payment.KeySecret != "" {
		masked.Payment.KeySecret = secretMask
	}
	if masked.Email.Password != "" {
		masked.Email.Password = secretMask
	}
	c.JSON(http.StatusOK, masked)
}

// writeSettings replaces the settings record. Secret fields echoed back
// still masked keep their stored values, so the admin UI can submit the
// read form unchanged.
func (h *orderHandlers) writeSettings(c *gin.Context) {
	var in domain.Settings
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request", "message": "invalid JSON body"})
		return
	}
	current, err := h.settings.Read(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	if in.Payment.KeySecret == secretMask {
		in.Payment.KeySecret = current.Payment.KeySecret
	}
	if in.Email.Password == secretMask {
		in.Email.Password = current.Email.Password
	}
	if err := h.settings.Write(c.Request.Context(), &in); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "settings saved"})
}
