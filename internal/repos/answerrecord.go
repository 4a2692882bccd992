package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/types"
)

type AnswerRecordRepo interface {
	Create(ctx context.Context, tx *gorm.DB, records []*types.AnswerRecord) ([]*types.AnswerRecord, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AnswerRecord, error)
}

type answerRecordRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnswerRecordRepo(db *gorm.DB, baseLog *logger.Logger) AnswerRecordRepo {
	repoLog := baseLog.With("repo", "AnswerRecordRepo")
	return &answerRecordRepo{db: db, log: repoLog}
}

func (r *answerRecordRepo) Create(ctx context.Context, tx *gorm.DB, records []*types.AnswerRecord) ([]*types.AnswerRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(records) == 0 {
		return []*types.AnswerRecord{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

func (r *answerRecordRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.AnswerRecord, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.AnswerRecord
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("answered_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
