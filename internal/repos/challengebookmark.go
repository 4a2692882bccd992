package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/types"
)

type ChallengeBookmarkRepo interface {
	Create(ctx context.Context, tx *gorm.DB, bookmark *types.ChallengeBookmark) (*types.ChallengeBookmark, error)
	GetByUserAndChallenge(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (*types.ChallengeBookmark, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChallengeBookmark, error)
	DeleteByUserAndChallenge(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (bool, error)
}

type challengeBookmarkRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeBookmarkRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeBookmarkRepo {
	repoLog := baseLog.With("repo", "ChallengeBookmarkRepo")
	return &challengeBookmarkRepo{db: db, log: repoLog}
}

func (r *challengeBookmarkRepo) Create(ctx context.Context, tx *gorm.DB, bookmark *types.ChallengeBookmark) (*types.ChallengeBookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(bookmark).Error; err != nil {
		return nil, err
	}
	return bookmark, nil
}

func (r *challengeBookmarkRepo) GetByUserAndChallenge(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (*types.ChallengeBookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChallengeBookmark
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *challengeBookmarkRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ChallengeBookmark, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ChallengeBookmark
	if err := transaction.WithContext(ctx).
		Preload("Challenge").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeBookmarkRepo) DeleteByUserAndChallenge(ctx context.Context, tx *gorm.DB, userID, challengeID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Unscoped().
		Where("user_id = ? AND challenge_id = ?", userID, challengeID).
		Delete(&types.ChallengeBookmark{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
