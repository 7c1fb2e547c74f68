package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/logger"
	appErrors "crm-service/pkg/errors"
	"crm-service/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service implements the admin-facing user management use cases.
type Service struct {
	users domainUser.Repository
}

func NewService(users domainUser.Repository) *Service {
	return &Service{users: users}
}

func (s *Service) Create(ctx context.Context, req *CreateUserRequest) (*CreatedResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	existing, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		logger.Warn("User creation with taken username",
			zap.String("username", req.Username),
			zap.String("event", "user_create_failed_duplicate_username"),
		)
		return nil, domainUser.ErrUsernameTaken
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	isAdmin := false
	if req.IsAdmin != nil {
		isAdmin = *req.IsAdmin
	}

	user := &domainUser.User{
		ID:        uuid.New(),
		Username:  req.Username,
		Password:  hashed,
		IsAdmin:   isAdmin,
		CreatedAt: time.Now(),
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User created",
		zap.String("user_id", user.ID.String()),
		zap.String("username", user.Username),
		zap.Bool("is_admin", user.IsAdmin),
		zap.String("event", "user_created"),
	)

	return &CreatedResponse{ID: user.ID}, nil
}

func (s *Service) Get(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

func (s *Service) List(ctx context.Context, req *ListUsersRequest) (*UserListResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	// Both filters default to true, matching the admin listing's purpose of
	// showing live, non-admin accounts unless asked otherwise.
	filter := domainUser.Filter{
		OnlyUsers:   true,
		OnlyActives: true,
		Page:        req.Page,
		Size:        req.Size,
	}
	if req.OnlyUsers != nil {
		filter.OnlyUsers = *req.OnlyUsers
	}
	if req.OnlyActives != nil {
		filter.OnlyActives = *req.OnlyActives
	}

	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return toUserListResponse(users, total, filter.Page, filter.Size), nil
}

func (s *Service) Update(ctx context.Context, userID uuid.UUID, req *UpdateUserRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	existing, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	patch := domainUser.Update{
		IsAdmin:   req.IsAdmin,
		DeletedAt: req.DtDeleted,
	}

	if req.Username != nil && *req.Username != existing.Username {
		taken, err := s.users.GetByUsername(ctx, *req.Username)
		if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken != nil {
			return domainUser.ErrUsernameTaken
		}
		patch.Username = req.Username
	}

	if req.Password != nil {
		hashed, err := utils.HashPassword(*req.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password: %w", err)
		}
		patch.Password = &hashed
	}

	if err := s.users.Update(ctx, userID, patch); err != nil {
		return err
	}

	logger.Info("User updated",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_updated"),
	)

	return nil
}

// Delete soft-deletes the user. Deleting an already-deleted user keeps the
// original delete timestamp and still succeeds.
func (s *Service) Delete(ctx context.Context, userID uuid.UUID) error {
	existing, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if existing.DeletedAt != nil {
		return nil
	}

	now := time.Now()
	if err := s.users.Update(ctx, userID, domainUser.Update{DeletedAt: &now}); err != nil {
		return err
	}

	logger.Info("User soft-deleted",
		zap.String("user_id", userID.String()),
		zap.String("event", "user_deleted"),
	)

	return nil
}

func toUserListResponse(users []*domainUser.User, total int64, page, size int) *UserListResponse {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	items := make([]*UserResponse, len(users))
	for i, u := range users {
		items[i] = ToUserResponse(u)
	}

	totalPages := int((total + int64(size) - 1) / int64(size))

	return &UserListResponse{
		Items:      items,
		Total:      total,
		Page:       page,
		Size:       size,
		TotalPages: totalPages,
	}
}
