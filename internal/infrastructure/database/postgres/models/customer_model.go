package models

import (
	"time"

	"github.com/google/uuid"
)

// CustomerModel represents the database model for Customer. The primary key
// is caller-supplied, not generated.
type CustomerModel struct {
	ID          string     `gorm:"type:varchar(255);primary_key;column:id"`
	Name        string     `gorm:"type:varchar(255);not null;column:name"`
	Surname     string     `gorm:"type:varchar(255);not null;column:surname"`
	PhotoURL    *string    `gorm:"type:text;column:photo_url"`
	DtCreated   time.Time  `gorm:"not null;column:dt_created"`
	DtUpdated   *time.Time `gorm:"column:dt_updated"`
	DtDeleted   *time.Time `gorm:"column:dt_deleted"`
	CreatedByID uuid.UUID  `gorm:"type:uuid;not null;index;column:created_by_id"`
	UpdatedByID *uuid.UUID `gorm:"type:uuid;column:updated_by_id"`
}

func (CustomerModel) TableName() string {
	return "customers"
}
