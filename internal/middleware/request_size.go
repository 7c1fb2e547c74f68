package middleware

import (
	"net/http"

	"crm-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequestSizeLimitMiddleware rejects bodies larger than maxBytes before the
// handlers read them. Base64 photo payloads are the biggest bodies this
// service accepts.
func RequestSizeLimitMiddleware(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > maxBytes {
			utils.ErrorResponse(c, http.StatusRequestEntityTooLarge, "Request body too large")
			c.Abort()
			return
		}

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}
