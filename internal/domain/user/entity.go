package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the identity record behind authentication and customer ownership.
// Password always holds a bcrypt hash; plaintext never reaches the entity.
type User struct {
	ID        uuid.UUID
	Username  string
	Password  string
	IsAdmin   bool
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
}

// IsActive is the single soft-delete predicate used by both login and
// per-request authentication.
func (u *User) IsActive() bool {
	return u.DeletedAt == nil
}

// Update carries a sparse patch: nil fields are left untouched.
type Update struct {
	Username  *string
	Password  *string
	IsAdmin   *bool
	DeletedAt *time.Time
}

// Filter selects users for listing. OnlyUsers and OnlyActives are
// independent and composable.
type Filter struct {
	OnlyUsers   bool
	OnlyActives bool
	Page        int
	Size        int
}
