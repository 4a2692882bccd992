package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/types"
)

type ChallengeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) ([]*types.Challenge, error)
	GetByIDForUser(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (*types.Challenge, error)
	GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error)
	ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Challenge, error)
	ListAllByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Challenge, error)
	ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Challenge, error)
	SearchByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, term string) ([]*types.Challenge, error)
	CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
	DeleteByIDForUser(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (bool, error)
	GetRandom(ctx context.Context, tx *gorm.DB) (*types.Challenge, error)
}

type challengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChallengeRepo(db *gorm.DB, baseLog *logger.Logger) ChallengeRepo {
	repoLog := baseLog.With("repo", "ChallengeRepo")
	return &challengeRepo{db: db, log: repoLog}
}

func (r *challengeRepo) Create(ctx context.Context, tx *gorm.DB, challenges []*types.Challenge) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(challenges) == 0 {
		return []*types.Challenge{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

func (r *challengeRepo) GetByIDForUser(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Where("id = ? AND created_by = ?", challengeID, userID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *challengeRepo) GetByID(ctx context.Context, tx *gorm.DB, challengeID uuid.UUID) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Where("id = ?", challengeID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *challengeRepo) ListByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit, offset int) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeRepo) ListAllByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Where("created_by = ?", userID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeRepo) ListRecentByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Where("created_by = ? AND created_at >= ?", userID, since).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeRepo) SearchByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID, term string) ([]*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	pattern := "%" + term + "%"
	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Where("created_by = ?", userID).
		Where("title LIKE ? OR topic LIKE ? OR difficulty LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *challengeRepo) CountByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var count int64
	if err := transaction.WithContext(ctx).
		Model(&types.Challenge{}).
		Where("created_by = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *challengeRepo) DeleteByIDForUser(ctx context.Context, tx *gorm.DB, challengeID, userID uuid.UUID) (bool, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	result := transaction.WithContext(ctx).
		Where("id = ? AND created_by = ?", challengeID, userID).
		Delete(&types.Challenge{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *challengeRepo) GetRandom(ctx context.Context, tx *gorm.DB) (*types.Challenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Challenge
	if err := transaction.WithContext(ctx).
		Order("random()").
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}
