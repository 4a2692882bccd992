package repos

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/types"
)

type DailyChallengeRepo interface {
	GetByDate(ctx context.Context, tx *gorm.DB, date time.Time) (*types.DailyChallenge, error)
	Create(ctx context.Context, tx *gorm.DB, daily *types.DailyChallenge) (*types.DailyChallenge, error)
	GetUserDaily(ctx context.Context, tx *gorm.DB, userID, dailyChallengeID uuid.UUID) (*types.UserDailyChallenge, error)
	CreateUserDaily(ctx context.Context, tx *gorm.DB, userDaily *types.UserDailyChallenge) (*types.UserDailyChallenge, error)
	SaveUserDaily(ctx context.Context, tx *gorm.DB, userDaily *types.UserDailyChallenge) error
	// ListUserCompletions returns correctly answered completions only;
	// wrong answers do not extend a streak.
	ListUserCompletions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserDailyChallenge, error)
}

type dailyChallengeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewDailyChallengeRepo(db *gorm.DB, baseLog *logger.Logger) DailyChallengeRepo {
	repoLog := baseLog.With("repo", "DailyChallengeRepo")
	return &dailyChallengeRepo{db: db, log: repoLog}
}

func (r *dailyChallengeRepo) GetByDate(ctx context.Context, tx *gorm.DB, date time.Time) (*types.DailyChallenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.DailyChallenge
	if err := transaction.WithContext(ctx).
		Preload("Challenge").
		Where("date = ?", date).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *dailyChallengeRepo) Create(ctx context.Context, tx *gorm.DB, daily *types.DailyChallenge) (*types.DailyChallenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(daily).Error; err != nil {
		return nil, err
	}
	return daily, nil
}

func (r *dailyChallengeRepo) GetUserDaily(ctx context.Context, tx *gorm.DB, userID, dailyChallengeID uuid.UUID) (*types.UserDailyChallenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserDailyChallenge
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND daily_challenge_id = ?", userID, dailyChallengeID).
		Limit(1).
		Find(&results).Error; err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}
	return results[0], nil
}

func (r *dailyChallengeRepo) CreateUserDaily(ctx context.Context, tx *gorm.DB, userDaily *types.UserDailyChallenge) (*types.UserDailyChallenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if err := transaction.WithContext(ctx).Create(userDaily).Error; err != nil {
		return nil, err
	}
	return userDaily, nil
}

func (r *dailyChallengeRepo) SaveUserDaily(ctx context.Context, tx *gorm.DB, userDaily *types.UserDailyChallenge) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	return transaction.WithContext(ctx).Save(userDaily).Error
}

func (r *dailyChallengeRepo) ListUserCompletions(ctx context.Context, tx *gorm.DB, userID uuid.UUID, since time.Time) ([]*types.UserDailyChallenge, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.UserDailyChallenge
	if err := transaction.WithContext(ctx).
		Preload("DailyChallenge").
		Joins("JOIN daily_challenge ON daily_challenge.id = user_daily_challenge.daily_challenge_id").
		Where("user_daily_challenge.user_id = ? AND user_daily_challenge.completed = ? AND user_daily_challenge.correct = ? AND daily_challenge.date >= ?", userID, true, true, since).
		Order("daily_challenge.date DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
