package middleware

import (
	"errors"
	"net/http"
	"strings"

	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/usecase/auth"
	appErrors "crm-service/pkg/errors"
	"crm-service/pkg/utils"

	"github.com/gin-gonic/gin"
)

const currentUserKey = "currentUser"

// AuthMiddleware authenticates the bearer token and resolves it to a live
// user record. The authorization decision depends on a database flag, so the
// subject is looked up on every request rather than trusted from a claim.
// A valid token whose subject no longer exists (or is soft-deleted) answers
// 404, matching the login behavior for dead accounts.
func AuthMiddleware(authService *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization header format")
			c.Abort()
			return
		}

		user, err := authService.CurrentUser(c.Request.Context(), parts[1])
		if err != nil {
			switch {
			case errors.Is(err, appErrors.ErrInvalidToken):
				utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			case errors.Is(err, domainUser.ErrUserNotFound):
				utils.ErrorResponse(c, http.StatusNotFound, "User not found")
			default:
				utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to authenticate request")
			}
			c.Abort()
			return
		}

		c.Set(currentUserKey, user)
		c.Next()
	}
}

// AdminOnly requires the authenticated user's admin flag. It must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "User not authenticated")
			c.Abort()
			return
		}

		if !user.IsAdmin {
			utils.ErrorResponse(c, http.StatusForbidden, "Insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}

// CurrentUser returns the authenticated user stored by AuthMiddleware, or
// nil when the request is unauthenticated.
func CurrentUser(c *gin.Context) *domainUser.User {
	value, exists := c.Get(currentUserKey)
	if !exists {
		return nil
	}
	user, ok := value.(*domainUser.User)
	if !ok {
		return nil
	}
	return user
}
