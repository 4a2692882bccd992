package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	FirstName string         `gorm:"column:first_name" json:"first_name,omitempty"`
	LastName  string         `gorm:"column:last_name" json:"last_name,omitempty"`
	Email     string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	Password  string         `gorm:"column:password;not null" json:"-"`
	CreatedAt time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (User) TableName() string { return "user" }
