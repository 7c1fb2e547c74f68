package customer

import (
	"time"

	"github.com/google/uuid"
)

// Customer is an owned business record. The identifier is supplied by the
// caller, not generated. CreatedByID is set once at creation; UpdatedByID
// tracks the last acting user.
type Customer struct {
	ID          string
	Name        string
	Surname     string
	PhotoURL    *string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	DeletedAt   *time.Time
	CreatedByID uuid.UUID
	UpdatedByID *uuid.UUID
}

func (c *Customer) IsActive() bool {
	return c.DeletedAt == nil
}

// Update carries a sparse patch: nil fields are left untouched. The acting
// user and dt_updated are stamped on every update call regardless of the
// patch content.
type Update struct {
	Name      *string
	Surname   *string
	PhotoURL  *string
	DeletedAt *time.Time
}

type Filter struct {
	OnlyActives bool
	Page        int
	Size        int
}
