package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/repos"
	"github.com/codequest/codequest-backend/internal/types"
)

// defaultDailyTopics drive the challenge-of-the-day rotation when no
// topics file is configured. The topic for a given date is picked by
// day of month modulo the list length, so every user sees the same
// topic on the same day.
var defaultDailyTopics = []string{
	"Python",
	"JavaScript",
	"Algorithms",
	"Data Structures",
	"SQL",
	"Go",
	"System Design",
	"Recursion",
	"Dynamic Programming",
	"Sorting",
	"Graphs",
	"Strings",
}

type topicsFile struct {
	Topics []string `yaml:"topics"`
}

// LoadDailyTopics reads the rotation topics from a YAML file. An empty
// path or any load failure falls back to the built-in rotation.
func LoadDailyTopics(path string, log *logger.Logger) []string {
	if path == "" {
		return defaultDailyTopics
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Warn("Failed to read topics file, using defaults", "path", path, "error", err)
		return defaultDailyTopics
	}
	var parsed topicsFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		log.Warn("Failed to parse topics file, using defaults", "path", path, "error", err)
		return defaultDailyTopics
	}
	if len(parsed.Topics) == 0 {
		log.Warn("Topics file contains no topics, using defaults", "path", path)
		return defaultDailyTopics
	}
	return parsed.Topics
}

type DailyStatus struct {
	DailyChallenge *types.DailyChallenge `json:"daily_challenge"`
	Completed      bool                  `json:"completed"`
	CanAttempt     bool                  `json:"can_attempt"`
	Correct        *bool                 `json:"correct,omitempty"`
	StreakBonus    int                   `json:"streak_bonus"`
	DailyStreak    int                   `json:"daily_streak"`
}

type DailyCompletionResult struct {
	IsCorrect          bool   `json:"is_correct"`
	CorrectAnswerIndex int    `json:"correct_answer_index"`
	Explanation        string `json:"explanation"`
	StreakBonus        int    `json:"streak_bonus"`
	DailyStreak        int    `json:"daily_streak"`
	AlreadyCompleted   bool   `json:"already_completed"`
}

type DailyChallengeService interface {
	GetToday(ctx context.Context, userID uuid.UUID) (*DailyStatus, error)
	Complete(ctx context.Context, userID uuid.UUID, selectedIndex int) (*DailyCompletionResult, error)
}

type dailyChallengeService struct {
	db            *gorm.DB
	log           *logger.Logger
	generator     genai.ChallengeGenerator
	challengeRepo repos.ChallengeRepo
	dailyRepo     repos.DailyChallengeRepo
	topics        []string
}

func NewDailyChallengeService(
	db *gorm.DB,
	log *logger.Logger,
	generator genai.ChallengeGenerator,
	challengeRepo repos.ChallengeRepo,
	dailyRepo repos.DailyChallengeRepo,
	topics []string,
) DailyChallengeService {
	serviceLog := log.With("service", "DailyChallengeService")
	if len(topics) == 0 {
		topics = defaultDailyTopics
	}
	return &dailyChallengeService{
		db:            db,
		log:           serviceLog,
		generator:     generator,
		challengeRepo: challengeRepo,
		dailyRepo:     dailyRepo,
		topics:        topics,
	}
}

func today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// topicForDate rotates through the configured topics by day of month,
// so the pick is stable for a whole day without any stored state.
func topicForDate(topics []string, date time.Time) string {
	return topics[date.Day()%len(topics)]
}

// dailyStreakBonus converts the streak built before today's completion
// into points: 10 base, times one extra for each full week, capped.
func dailyStreakBonus(streak int) int {
	multiplier := 1 + streak/7
	if multiplier > 6 {
		multiplier = 6
	}
	return 10 * multiplier
}

func (ds *dailyChallengeService) GetToday(ctx context.Context, userID uuid.UUID) (*DailyStatus, error) {
	daily, err := ds.getOrCreateDaily(ctx)
	if err != nil {
		return nil, err
	}

	status := &DailyStatus{DailyChallenge: daily}

	userDaily, err := ds.dailyRepo.GetUserDaily(ctx, nil, userID, daily.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily progress: %w", err)
	}
	if userDaily != nil {
		status.Completed = userDaily.Completed
		status.Correct = userDaily.Correct
		status.StreakBonus = userDaily.StreakBonus
	}

	status.CanAttempt = !status.Completed

	streak, err := ds.dailyStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	status.DailyStreak = streak
	return status, nil
}

func (ds *dailyChallengeService) Complete(ctx context.Context, userID uuid.UUID, selectedIndex int) (*DailyCompletionResult, error) {
	daily, err := ds.getOrCreateDaily(ctx)
	if err != nil {
		return nil, err
	}
	if daily.Challenge == nil {
		challenge, cErr := ds.challengeRepo.GetByID(ctx, nil, daily.ChallengeID)
		if cErr != nil {
			return nil, fmt.Errorf("failed to load daily challenge body: %w", cErr)
		}
		if challenge == nil {
			return nil, ErrChallengeNotFound
		}
		daily.Challenge = challenge
	}

	userDaily, err := ds.dailyRepo.GetUserDaily(ctx, nil, userID, daily.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily progress: %w", err)
	}
	if userDaily != nil && userDaily.Completed {
		streak, sErr := ds.dailyStreak(ctx, userID)
		if sErr != nil {
			return nil, sErr
		}
		result := &DailyCompletionResult{
			CorrectAnswerIndex: daily.Challenge.CorrectAnswerIndex,
			Explanation:        daily.Challenge.Explanation,
			StreakBonus:        userDaily.StreakBonus,
			DailyStreak:        streak,
			AlreadyCompleted:   true,
		}
		if userDaily.Correct != nil {
			result.IsCorrect = *userDaily.Correct
		}
		return result, nil
	}

	isCorrect := selectedIndex == daily.Challenge.CorrectAnswerIndex
	now := time.Now()

	streak, err := ds.dailyStreak(ctx, userID)
	if err != nil {
		return nil, err
	}
	// The bonus is based on the streak built before today's answer.
	bonus := 0
	if isCorrect {
		bonus = dailyStreakBonus(streak)
		streak++
	}

	if userDaily == nil {
		userDaily = &types.UserDailyChallenge{
			ID:               uuid.New(),
			UserID:           userID,
			DailyChallengeID: daily.ID,
		}
		if _, cErr := ds.dailyRepo.CreateUserDaily(ctx, nil, userDaily); cErr != nil {
			return nil, fmt.Errorf("failed to create daily progress: %w", cErr)
		}
	}
	userDaily.Completed = true
	userDaily.CompletedAt = &now
	userDaily.Correct = &isCorrect
	userDaily.StreakBonus = bonus
	if sErr := ds.dailyRepo.SaveUserDaily(ctx, nil, userDaily); sErr != nil {
		return nil, fmt.Errorf("failed to record daily completion: %w", sErr)
	}

	ds.log.Info("Daily challenge completed",
		"user_id", userID,
		"daily_challenge_id", daily.ID,
		"correct", isCorrect,
		"streak", streak,
		"bonus", bonus,
	)
	return &DailyCompletionResult{
		IsCorrect:          isCorrect,
		CorrectAnswerIndex: daily.Challenge.CorrectAnswerIndex,
		Explanation:        daily.Challenge.Explanation,
		StreakBonus:        bonus,
		DailyStreak:        streak,
	}, nil
}

// getOrCreateDaily returns today's shared challenge, generating and
// pinning one on first access. Concurrent first access can race on the
// unique date index; the loser re-reads the winner's row.
func (ds *dailyChallengeService) getOrCreateDaily(ctx context.Context) (*types.DailyChallenge, error) {
	date := today()

	daily, err := ds.dailyRepo.GetByDate(ctx, nil, date)
	if err != nil {
		return nil, fmt.Errorf("failed to load daily challenge: %w", err)
	}
	if daily != nil {
		return daily, nil
	}

	topic := topicForDate(ds.topics, date)
	record := ds.generator.Generate(ctx, topic, genai.DifficultyMedium, "")

	optionsJSON, err := json.Marshal(record.Options)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize options: %w", err)
	}

	challenge := &types.Challenge{
		ID:                 uuid.New(),
		CreatedBy:          uuid.Nil,
		Topic:              topic,
		Difficulty:         genai.DifficultyMedium,
		Title:              record.Title,
		Question:           record.Question,
		Options:            string(optionsJSON),
		CorrectAnswerIndex: record.CorrectAnswerIndex,
		Explanation:        record.Explanation,
		TimeComplexity:     record.TimeComplexity,
		SpaceComplexity:    record.SpaceComplexity,
	}

	daily = &types.DailyChallenge{
		ID:          uuid.New(),
		ChallengeID: challenge.ID,
		Date:        date,
		Featured:    true,
	}
	err = ds.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, cErr := ds.challengeRepo.Create(ctx, tx, []*types.Challenge{challenge}); cErr != nil {
			return fmt.Errorf("failed to persist daily challenge body: %w", cErr)
		}
		if _, cErr := ds.dailyRepo.Create(ctx, tx, daily); cErr != nil {
			return fmt.Errorf("failed to pin daily challenge: %w", cErr)
		}
		return nil
	})
	if err != nil {
		ds.log.Warn("Failed to create daily challenge, checking for concurrent winner", "error", err)
		existing, gErr := ds.dailyRepo.GetByDate(ctx, nil, date)
		if gErr == nil && existing != nil {
			return existing, nil
		}
		// Degraded mode: serve a random stored challenge without pinning it.
		random, rErr := ds.challengeRepo.GetRandom(ctx, nil)
		if rErr == nil && random != nil {
			ds.log.Warn("Serving unpinned random challenge as daily fallback", "challenge_id", random.ID)
			return &types.DailyChallenge{
				ID:          uuid.New(),
				ChallengeID: random.ID,
				Challenge:   random,
				Date:        date,
			}, nil
		}
		return nil, err
	}

	daily.Challenge = challenge
	ds.log.Info("Daily challenge created", "date", date.Format("2006-01-02"), "topic", topic, "challenge_id", challenge.ID)
	return daily, nil
}

// dailyStreak counts consecutive correctly answered daily challenges
// ending today or yesterday. A chain ending yesterday stays alive until
// today's answer; a wrong answer never extends it.
func (ds *dailyChallengeService) dailyStreak(ctx context.Context, userID uuid.UUID) (int, error) {
	since := today().AddDate(0, 0, -90)
	completions, err := ds.dailyRepo.ListUserCompletions(ctx, nil, userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to list daily completions: %w", err)
	}

	dates := make([]time.Time, 0, len(completions))
	for _, c := range completions {
		if c.DailyChallenge != nil {
			dates = append(dates, c.DailyChallenge.Date)
		}
	}
	return consecutiveDailyStreak(dates, today()), nil
}

// consecutiveDailyStreak expects dates ordered newest first and counts
// back from today. The streak is zero when the newest completion is
// older than yesterday.
func consecutiveDailyStreak(dates []time.Time, todayDate time.Time) int {
	if len(dates) == 0 {
		return 0
	}
	expected := todayDate
	if !sameDay(dates[0], todayDate) {
		expected = todayDate.AddDate(0, 0, -1)
	}
	streak := 0
	for _, d := range dates {
		if sameDay(d, expected) {
			streak++
			expected = expected.AddDate(0, 0, -1)
		} else {
			break
		}
	}
	return streak
}

func sameDay(a, b time.Time) bool {
	return a.UTC().Format("2006-01-02") == b.UTC().Format("2006-01-02")
}
