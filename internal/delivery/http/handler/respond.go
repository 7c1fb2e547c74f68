package handler

import (
	"errors"
	"net/http"

	domainCustomer "crm-service/internal/domain/customer"
	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/logger"
	"crm-service/internal/middleware"
	appErrors "crm-service/pkg/errors"
	"crm-service/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondWithError maps domain errors onto the service's HTTP contract:
// conflicts and persistence failures are 400, missing targets 404, bad
// tokens 401, missing role 403.
func respondWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	switch {
	case errors.Is(err, domainUser.ErrUsernameTaken),
		errors.Is(err, domainCustomer.ErrCustomerIDTaken),
		errors.Is(err, domainUser.ErrNotCreated),
		errors.Is(err, domainCustomer.ErrNotCreated),
		errors.Is(err, appErrors.ErrInvalidCredentials):
		utils.ErrorResponse(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, appErrors.ErrInvalidToken),
		errors.Is(err, appErrors.ErrUnauthorized):
		utils.ErrorResponse(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, appErrors.ErrInsufficientPermissions):
		utils.ErrorResponse(c, http.StatusForbidden, err.Error())
	case errors.Is(err, domainUser.ErrUserNotFound),
		errors.Is(err, domainCustomer.ErrCustomerNotFound):
		utils.ErrorResponse(c, http.StatusNotFound, err.Error())
	default:
		var appErr *appErrors.AppError
		if errors.As(err, &appErr) {
			utils.ErrorResponse(c, http.StatusBadRequest, appErr.Message)
			return
		}

		requestID := middleware.GetRequestID(c)
		logger.Error("Internal server error",
			zap.String("request_id", requestID),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
			zap.Error(err),
		)
		utils.ErrorResponse(c, http.StatusInternalServerError, "Internal server error")
	}
}
