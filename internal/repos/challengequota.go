package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/types"
)

type ChallengeQuotaRepo interface {
	GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ChallengeQuota, error)
	Create(ctx context.Context, tx *gorm.DB, quota *types.ChallengeQuota) (*types.ChallengeQuota, error)
	Save(ctx context.Context, tx *gorm.DB, quota *types.ChallengeQuota) error
}

type challengeQuotaRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeQuotaRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeQuotaRepo {
	repoLog := baseLog.With("repo", "ChallengeQuotaRepo")
	return &challengeQuotaRepo{db: db, log: repoLog}
}

func (r *challengeQuotaRepo) GetByUserID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.ChallengeQuota, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChallengeQuota
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *challengeQuotaRepo) Create(ctx context.Context, tx *gorm.DB, quota *types.ChallengeQuota) (*types.ChallengeQuota, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(quota).Error; err != nil {
		return nil, err
	}
	return quota, nil
}

func (r *challengeQuotaRepo) Save(ctx context.Context, tx *gorm.DB, quota *types.ChallengeQuota) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Save(quota).Error
}
