package user

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for users.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Update applies only the fields set in the patch and always stamps
	// dt_updated.
	Update(ctx context.Context, userID uuid.UUID, patch Update) error
	// List returns the filtered page of users plus the total match count.
	List(ctx context.Context, filter Filter) ([]*User, int64, error)
}
