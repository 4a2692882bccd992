package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ChallengeBookmark struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_challenge_bookmark,unique,priority:1" json:"user_id"`
	ChallengeID uuid.UUID      `gorm:"type:uuid;not null;index:idx_user_challenge_bookmark,unique,priority:2" json:"challenge_id"`
	Challenge   *Challenge     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"challenge,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChallengeBookmark) TableName() string { return "challenge_bookmark" }
