package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainUser "crm-service/internal/domain/user"
	"crm-service/internal/infrastructure/database/postgres/models"
	appErrors "crm-service/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserRepository implements domain user.Repository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now()
	}

	dbModel := toUserModel(u)
	if err := r.db.Insert(ctx, dbModel); err != nil {
		if errors.Is(err, appErrors.ErrDuplicateKey) {
			return domainUser.ErrUsernameTaken
		}
		return domainUser.ErrNotCreated
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domainUser.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("username = ?", username).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) Update(ctx context.Context, userID uuid.UUID, patch domainUser.Update) error {
	updates := map[string]interface{}{
		"dt_updated": time.Now(),
	}
	if patch.Username != nil {
		updates["username"] = *patch.Username
	}
	if patch.Password != nil {
		updates["password"] = *patch.Password
	}
	if patch.IsAdmin != nil {
		updates["is_admin"] = *patch.IsAdmin
	}
	if patch.DeletedAt != nil {
		updates["dt_deleted"] = *patch.DeletedAt
	}

	rows, err := r.db.UpdateColumns(ctx, &models.UserModel{}, userID, updates)
	if err != nil {
		if errors.Is(err, appErrors.ErrDuplicateKey) {
			return domainUser.ErrUsernameTaken
		}
		return err
	}
	if rows == 0 {
		return domainUser.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) List(ctx context.Context, filter domainUser.Filter) ([]*domainUser.User, int64, error) {
	db := r.db.DB.WithContext(ctx).Model(&models.UserModel{})

	if filter.OnlyUsers {
		db = db.Where("is_admin = ?", false)
	}
	if filter.OnlyActives {
		db = db.Where("dt_deleted IS NULL")
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	size := filter.Size
	if size <= 0 {
		size = 20
	}
	offset := (page - 1) * size

	var dbModels []models.UserModel
	err := db.Order("dt_created ASC").
		Limit(size).
		Offset(offset).
		Find(&dbModels).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domainUser.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}

	return users, total, nil
}

// Converters between domain entities and database models

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:        u.ID,
		Username:  u.Username,
		Password:  u.Password,
		IsAdmin:   u.IsAdmin,
		DtCreated: u.CreatedAt,
		DtUpdated: u.UpdatedAt,
		DtDeleted: u.DeletedAt,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		IsAdmin:   m.IsAdmin,
		CreatedAt: m.DtCreated,
		UpdatedAt: m.DtUpdated,
		DeletedAt: m.DtDeleted,
	}
}
