package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Challenge is one generated multiple-choice coding challenge. Options is
// the JSON-encoded list of exactly four answer strings.
type Challenge struct {
	ID                 uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	CreatedBy          uuid.UUID      `gorm:"type:uuid;not null;index" json:"created_by"`
	Topic              string         `gorm:"column:topic;not null;index" json:"topic"`
	SubTopic           string         `gorm:"column:sub_topic" json:"sub_topic,omitempty"`
	Difficulty         string         `gorm:"column:difficulty;not null;index" json:"difficulty"`
	Title              string         `gorm:"column:title;not null" json:"title"`
	Question           string         `gorm:"column:question;not null" json:"question"`
	Options            string         `gorm:"column:options;not null" json:"options"`
	CorrectAnswerIndex int            `gorm:"column:correct_answer_index;not null" json:"correct_answer_index"`
	Explanation        string         `gorm:"column:explanation;not null" json:"explanation"`
	TimeComplexity     string         `gorm:"column:time_complexity" json:"time_complexity,omitempty"`
	SpaceComplexity    string         `gorm:"column:space_complexity" json:"space_complexity,omitempty"`
	CreatedAt          time.Time      `gorm:"not null;default:now();index" json:"created_at"`
	UpdatedAt          time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Challenge) TableName() string { return "challenge" }
