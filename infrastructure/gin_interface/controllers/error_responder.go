package controllers

import (
	"net/http"

	"github.com/Gmy-678/voice-changer/apperrors"

	"github.com/gin-gonic/gin"
)

// respondError renders a structured error body. AppError fields become the
// detail object; anything else is an opaque 500.
func respondError(c *gin.Context, err error) {
	if appErr, ok := apperrors.AsAppError(err); ok {
		detail := map[string]interface{}{
			"error":  appErr.Code,
			"detail": appErr.Detail,
		}
		for k, v := range appErr.Extra {
			detail[k] = v
		}
		c.AbortWithStatusJSON(appErr.Status, gin.H{"detail": detail})
		return
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
}
