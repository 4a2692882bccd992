package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DailyChallenge pins one challenge as the shared challenge of the day.
// Date is truncated to midnight UTC and unique.
type DailyChallenge struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	ChallengeID uuid.UUID      `gorm:"type:uuid;not null" json:"challenge_id"`
	Challenge   *Challenge     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"challenge,omitempty"`
	Date        time.Time      `gorm:"column:date;not null;uniqueIndex" json:"date"`
	Featured    bool           `gorm:"column:featured;not null;default:false" json:"featured"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (DailyChallenge) TableName() string { return "daily_challenge" }

type UserDailyChallenge struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID           uuid.UUID       `gorm:"type:uuid;not null;index:idx_user_daily,unique,priority:1" json:"user_id"`
	DailyChallengeID uuid.UUID       `gorm:"type:uuid;not null;index:idx_user_daily,unique,priority:2" json:"daily_challenge_id"`
	DailyChallenge   *DailyChallenge `gorm:"constraint:OnDelete:CASCADE;foreignKey:DailyChallengeID;references:ID" json:"daily_challenge,omitempty"`
	Completed        bool            `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt      *time.Time      `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Correct          *bool           `gorm:"column:correct" json:"correct,omitempty"`
	StreakBonus      int             `gorm:"column:streak_bonus;not null;default:0" json:"streak_bonus"`
	CreatedAt        time.Time       `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt        gorm.DeletedAt  `gorm:"index" json:"deleted_at,omitempty"`
}

func (UserDailyChallenge) TableName() string { return "user_daily_challenge" }
