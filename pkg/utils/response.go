package utils

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse writes the error body used across the whole API.
func ErrorResponse(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"detail": message})
}
