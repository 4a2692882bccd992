package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/repos"
	"github.com/codequest/codequest-backend/internal/types"
)

// quotaResetInterval is the rolling window after which a user's quota
// refills, measured from the last reset, not from midnight.
const quotaResetInterval = 24 * time.Hour

type AnswerResult struct {
	IsCorrect          bool   `json:"is_correct"`
	CorrectAnswerIndex int    `json:"correct_answer_index"`
	Explanation        string `json:"explanation"`
	Feedback           string `json:"feedback"`
}

type ChallengeService interface {
	GenerateChallenge(ctx context.Context, userID uuid.UUID, topic, difficulty, subTopic string) (*types.Challenge, *types.ChallengeQuota, error)
	GetQuota(ctx context.Context, userID uuid.UUID) (*types.ChallengeQuota, error)
	History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Challenge, int64, error)
	GetByID(ctx context.Context, userID, challengeID uuid.UUID) (*types.Challenge, error)
	Delete(ctx context.Context, userID, challengeID uuid.UUID) error
	Search(ctx context.Context, userID uuid.UUID, term string) ([]*types.Challenge, error)
	ValidateAnswer(ctx context.Context, userID, challengeID uuid.UUID, selectedIndex int, responseTime float64) (*AnswerResult, error)
	DailyQuota() int
}

type challengeService struct {
	db            *gorm.DB
	log           *logger.Logger
	generator     genai.ChallengeGenerator
	challengeRepo repos.ChallengeRepo
	quotaRepo     repos.ChallengeQuotaRepo
	answerRepo    repos.AnswerRecordRepo
	dailyQuota    int
}

func NewChallengeService(
	db *gorm.DB,
	log *logger.Logger,
	generator genai.ChallengeGenerator,
	challengeRepo repos.ChallengeRepo,
	quotaRepo repos.ChallengeQuotaRepo,
	answerRepo repos.AnswerRecordRepo,
	dailyQuota int,
) ChallengeService {
	serviceLog := log.With("service", "ChallengeService")
	if dailyQuota < 1 {
		dailyQuota = 50
	}
	return &challengeService{
		db:            db,
		log:           serviceLog,
		generator:     generator,
		challengeRepo: challengeRepo,
		quotaRepo:     quotaRepo,
		answerRepo:    answerRepo,
		dailyQuota:    dailyQuota,
	}
}

func validDifficulty(difficulty string) bool {
	switch difficulty {
	case genai.DifficultyEasy, genai.DifficultyMedium, genai.DifficultyHard:
		return true
	}
	return false
}

// GenerateChallenge runs the full use case: quota get-or-create and
// rolling reset, the generation pipeline, persistence, and the quota
// decrement. The pipeline itself never fails; it degrades to a fallback
// challenge, so the only error paths here are quota and storage.
func (cs *challengeService) GenerateChallenge(ctx context.Context, userID uuid.UUID, topic, difficulty, subTopic string) (*types.Challenge, *types.ChallengeQuota, error) {
	if !validDifficulty(difficulty) {
		return nil, nil, ErrInvalidDifficulty
	}

	quota, err := cs.getOrCreateQuota(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if quota.QuotaRemaining <= 0 {
		cs.log.Warn("User quota exhausted", "user_id", userID)
		return nil, quota, ErrQuotaExhausted
	}

	record := cs.generator.Generate(ctx, topic, difficulty, subTopic)

	optionsJSON, err := json.Marshal(record.Options)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to serialize options: %w", err)
	}

	challenge := &types.Challenge{
		ID:                 uuid.New(),
		CreatedBy:          userID,
		Topic:              topic,
		SubTopic:           subTopic,
		Difficulty:         difficulty,
		Title:              record.Title,
		Question:           record.Question,
		Options:            string(optionsJSON),
		CorrectAnswerIndex: record.CorrectAnswerIndex,
		Explanation:        record.Explanation,
		TimeComplexity:     record.TimeComplexity,
		SpaceComplexity:    record.SpaceComplexity,
	}

	if err := cs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := cs.challengeRepo.Create(ctx, tx, []*types.Challenge{challenge}); cErr != nil {
			return fmt.Errorf("failed to persist challenge: %w", cErr)
		}
		quota.QuotaRemaining--
		if sErr := cs.quotaRepo.Save(ctx, tx, quota); sErr != nil {
			return fmt.Errorf("failed to decrement quota: %w", sErr)
		}
		return nil
	}); err != nil {
		return nil, nil, err
	}

	cs.log.Info("Challenge generated and stored",
		"user_id", userID,
		"challenge_id", challenge.ID,
		"topic", topic,
		"difficulty", difficulty,
		"quota_remaining", quota.QuotaRemaining,
	)
	return challenge, quota, nil
}

func (cs *challengeService) GetQuota(ctx context.Context, userID uuid.UUID) (*types.ChallengeQuota, error) {
	return cs.getOrCreateQuota(ctx, userID)
}

func (cs *challengeService) getOrCreateQuota(ctx context.Context, userID uuid.UUID) (*types.ChallengeQuota, error) {
	quota, err := cs.quotaRepo.GetByUserID(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load quota: %w", err)
	}
	if quota == nil {
		quota = &types.ChallengeQuota{
			ID:             uuid.New(),
			UserID:         userID,
			QuotaRemaining: cs.dailyQuota,
			LastResetDate:  time.Now(),
		}
		if _, cErr := cs.quotaRepo.Create(ctx, nil, quota); cErr != nil {
			return nil, fmt.Errorf("failed to create quota: %w", cErr)
		}
		cs.log.Info("Created new quota", "user_id", userID, "quota", cs.dailyQuota)
		return quota, nil
	}

	if time.Since(quota.LastResetDate) > quotaResetInterval {
		quota.QuotaRemaining = cs.dailyQuota
		quota.LastResetDate = time.Now()
		if sErr := cs.quotaRepo.Save(ctx, nil, quota); sErr != nil {
			return nil, fmt.Errorf("failed to reset quota: %w", sErr)
		}
		cs.log.Info("Quota reset", "user_id", userID)
	}
	return quota, nil
}

func (cs *challengeService) History(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*types.Challenge, int64, error) {
	if limit <= 0 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}
	challenges, err := cs.challengeRepo.ListByUser(ctx, nil, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list challenges: %w", err)
	}
	total, err := cs.challengeRepo.CountByUser(ctx, nil, userID)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count challenges: %w", err)
	}
	return challenges, total, nil
}

func (cs *challengeService) GetByID(ctx context.Context, userID, challengeID uuid.UUID) (*types.Challenge, error) {
	challenge, err := cs.challengeRepo.GetByIDForUser(ctx, nil, challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}
	return challenge, nil
}

func (cs *challengeService) Delete(ctx context.Context, userID, challengeID uuid.UUID) error {
	deleted, err := cs.challengeRepo.DeleteByIDForUser(ctx, nil, challengeID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete challenge: %w", err)
	}
	if !deleted {
		return ErrChallengeNotFound
	}
	return nil
}

func (cs *challengeService) Search(ctx context.Context, userID uuid.UUID, term string) ([]*types.Challenge, error) {
	challenges, err := cs.challengeRepo.SearchByUser(ctx, nil, userID, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search challenges: %w", err)
	}
	return challenges, nil
}

func (cs *challengeService) ValidateAnswer(ctx context.Context, userID, challengeID uuid.UUID, selectedIndex int, responseTime float64) (*AnswerResult, error) {
	challenge, err := cs.challengeRepo.GetByIDForUser(ctx, nil, challengeID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	isCorrect := selectedIndex == challenge.CorrectAnswerIndex

	record := &types.AnswerRecord{
		ID:           uuid.New(),
		UserID:       userID,
		ChallengeID:  challenge.ID,
		Difficulty:   challenge.Difficulty,
		IsCorrect:    isCorrect,
		ResponseTime: responseTime,
		AnsweredAt:   time.Now(),
	}
	if _, cErr := cs.answerRepo.Create(ctx, nil, []*types.AnswerRecord{record}); cErr != nil {
		return nil, fmt.Errorf("failed to record answer: %w", cErr)
	}

	result := &AnswerResult{
		IsCorrect:          isCorrect,
		CorrectAnswerIndex: challenge.CorrectAnswerIndex,
		Explanation:        challenge.Explanation,
		Feedback:           "Not quite right. Check the explanation below.",
	}
	if isCorrect {
		result.Explanation = "Correct! Well done."
		result.Feedback = "Great job!"
	}
	return result, nil
}

func (cs *challengeService) DailyQuota() int {
	return cs.dailyQuota
}
