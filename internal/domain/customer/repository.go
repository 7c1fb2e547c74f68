package customer

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines the persistence operations for customers.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, c *Customer) error
	// GetByID does not filter soft-deleted rows; callers that need an
	// active-only view apply the predicate themselves.
	GetByID(ctx context.Context, customerID string) (*Customer, error)
	// Update applies only the fields set in the patch and unconditionally
	// stamps updated_by_id and dt_updated with the acting user.
	Update(ctx context.Context, customerID string, patch Update, actorID uuid.UUID) error
	List(ctx context.Context, filter Filter) ([]*Customer, int64, error)
}
