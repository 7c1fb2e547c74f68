package models

import (
	"time"

	"github.com/google/uuid"
)

// UserModel represents the database model for User
type UserModel struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;column:id"`
	Username  string     `gorm:"type:varchar(100);not null;uniqueIndex;column:username"`
	Password  string     `gorm:"type:varchar(255);not null;column:password"`
	IsAdmin   bool       `gorm:"not null;default:false;column:is_admin"`
	DtCreated time.Time  `gorm:"not null;column:dt_created"`
	DtUpdated *time.Time `gorm:"column:dt_updated"`
	DtDeleted *time.Time `gorm:"column:dt_deleted"`
}

func (UserModel) TableName() string {
	return "users"
}
