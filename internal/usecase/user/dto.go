package user

import (
	"time"

	domainUser "crm-service/internal/domain/user"

	"github.com/google/uuid"
)

type CreateUserRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Password string `json:"password" validate:"required,min=1"`
	IsAdmin  *bool  `json:"is_admin" validate:"omitempty"`
}

// UpdateUserRequest is a sparse patch: absent fields stay untouched.
type UpdateUserRequest struct {
	Username  *string    `json:"username" validate:"omitempty,min=1,max=100"`
	Password  *string    `json:"password" validate:"omitempty,min=1"`
	IsAdmin   *bool      `json:"is_admin"`
	DtDeleted *time.Time `json:"dt_deleted"`
}

type ListUsersRequest struct {
	OnlyUsers   *bool `form:"only_users"`
	OnlyActives *bool `form:"only_actives"`
	Page        int   `form:"page" validate:"omitempty,min=1"`
	Size        int   `form:"size" validate:"omitempty,min=1,max=100"`
}

type CreatedResponse struct {
	ID uuid.UUID `json:"id"`
}

// UserResponse never carries the password hash.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Username  string     `json:"username"`
	IsAdmin   bool       `json:"is_admin"`
	DtCreated time.Time  `json:"dt_created"`
	DtUpdated *time.Time `json:"dt_updated"`
	DtDeleted *time.Time `json:"dt_deleted"`
}

type UserListResponse struct {
	Items      []*UserResponse `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"total_pages"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		IsAdmin:   u.IsAdmin,
		DtCreated: u.CreatedAt,
		DtUpdated: u.UpdatedAt,
		DtDeleted: u.DeletedAt,
	}
}
