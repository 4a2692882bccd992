package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChallengeQuota tracks the per-user daily generation allowance. The quota
// resets on a rolling 24h window from LastResetDate, not at midnight.
type ChallengeQuota struct {
	ID             uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID         uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	QuotaRemaining int            `gorm:"column:quota_remaining;not null;default:50" json:"quota_remaining"`
	LastResetDate  time.Time      `gorm:"column:last_reset_date;not null;default:now()" json:"last_reset_date"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (ChallengeQuota) TableName() string { return "challenge_quota" }
