package customer

import (
	"time"

	domainCustomer "crm-service/internal/domain/customer"

	"github.com/google/uuid"
)

type CreateCustomerRequest struct {
	ID       string  `json:"id" validate:"required,min=1,max=255"`
	Name     string  `json:"name" validate:"required,min=1"`
	Surname  string  `json:"surname" validate:"required,min=1"`
	PhotoURL *string `json:"photo_url"`
}

// UpdateCustomerRequest is a sparse patch: absent fields stay untouched.
type UpdateCustomerRequest struct {
	Name      *string    `json:"name" validate:"omitempty,min=1"`
	Surname   *string    `json:"surname" validate:"omitempty,min=1"`
	PhotoURL  *string    `json:"photo_url"`
	DtDeleted *time.Time `json:"dt_deleted"`
}

type UploadPhotoRequest struct {
	Image string `json:"image" validate:"required"`
}

type ListCustomersRequest struct {
	OnlyActives *bool `form:"only_actives"`
	Page        int   `form:"page" validate:"omitempty,min=1"`
	Size        int   `form:"size" validate:"omitempty,min=1,max=100"`
}

type CustomerResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Surname     string     `json:"surname"`
	PhotoURL    *string    `json:"photo_url"`
	DtCreated   time.Time  `json:"dt_created"`
	DtUpdated   *time.Time `json:"dt_updated"`
	DtDeleted   *time.Time `json:"dt_deleted"`
	CreatedByID uuid.UUID  `json:"created_by_id"`
	UpdatedByID *uuid.UUID `json:"updated_by_id"`
}

type CustomerListResponse struct {
	Items      []*CustomerResponse `json:"items"`
	Total      int64               `json:"total"`
	Page       int                 `json:"page"`
	Size       int                 `json:"size"`
	TotalPages int                 `json:"total_pages"`
}

type PhotoResponse struct {
	PhotoURL string `json:"photo_url"`
}

func ToCustomerResponse(c *domainCustomer.Customer) *CustomerResponse {
	if c == nil {
		return nil
	}
	return &CustomerResponse{
		ID:          c.ID,
		Name:        c.Name,
		Surname:     c.Surname,
		PhotoURL:    c.PhotoURL,
		DtCreated:   c.CreatedAt,
		DtUpdated:   c.UpdatedAt,
		DtDeleted:   c.DeletedAt,
		CreatedByID: c.CreatedByID,
		UpdatedByID: c.UpdatedByID,
	}
}
