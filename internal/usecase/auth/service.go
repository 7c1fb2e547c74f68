package auth

import (
	"context"
	"errors"
	"time"

	"crm-service/internal/config"
	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/logger"
	appErrors "crm-service/pkg/errors"
	"crm-service/pkg/utils"

	"go.uber.org/zap"
)

// Service verifies credentials, issues bearer tokens and resolves the
// current user of a request.
type Service struct {
	users  domainUser.Repository
	config *config.Config
}

func NewService(users domainUser.Repository, cfg *config.Config) *Service {
	return &Service{
		users:  users,
		config: cfg,
	}
}

// Login exchanges a username/password pair for a signed bearer token.
// Unknown and soft-deleted accounts both answer "not found"; only a live
// account with the right password gets a token.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*TokenResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			logger.Warn("Login attempt with unknown username",
				zap.String("username", req.Username),
				zap.String("event", "login_failed_user_not_found"),
			)
			return nil, domainUser.ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive() {
		logger.Warn("Login attempt for soft-deleted user",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
			zap.String("event", "login_failed_deleted_user"),
		)
		return nil, domainUser.ErrUserNotFound
	}

	if !utils.CheckPassword(user.Password, req.Password) {
		logger.Warn("Login attempt with invalid password",
			zap.String("user_id", user.ID.String()),
			zap.String("username", user.Username),
			zap.String("event", "login_failed_invalid_password"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	ttl := time.Duration(s.config.JWT.ExpiryMinutes) * time.Minute
	token, err := utils.CreateAccessToken(user.Username, s.config.JWT.Secret, ttl)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.String("event", "login_success"),
	)

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
	}, nil
}

// CurrentUser validates a bearer token and resolves its subject to a live
// user record. An invalid or expired token is an authentication failure; a
// valid token whose subject is missing or soft-deleted answers "not found".
func (s *Service) CurrentUser(ctx context.Context, token string) (*domainUser.User, error) {
	username, err := utils.ValidateToken(token, s.config.JWT.Secret)
	if err != nil {
		return nil, appErrors.ErrInvalidToken
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	if !user.IsActive() {
		return nil, domainUser.ErrUserNotFound
	}

	return user, nil
}
