package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AnswerRecord struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;not null;index" json:"user_id"`
	ChallengeID  uuid.UUID      `gorm:"type:uuid;not null;index" json:"challenge_id"`
	Challenge    *Challenge     `gorm:"constraint:OnDelete:CASCADE;foreignKey:ChallengeID;references:ID" json:"challenge,omitempty"`
	Difficulty   string         `gorm:"column:difficulty;not null" json:"difficulty"`
	IsCorrect    bool           `gorm:"column:is_correct;not null" json:"is_correct"`
	ResponseTime float64        `gorm:"column:response_time" json:"response_time,omitempty"`
	AnsweredAt   time.Time      `gorm:"column:answered_at;not null;default:now()" json:"answered_at"`
	CreatedAt    time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (AnswerRecord) TableName() string { return "answer_record" }
