package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/repos"
	"github.com/codequest/codequest-backend/internal/types"
)

type Achievement struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
	Progress    *int   `json:"progress,omitempty"`
	Total       int    `json:"total,omitempty"`
}

type TopicCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type ActivityDay struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type StatsOverview struct {
	TotalChallenges int            `json:"totalChallenges"`
	ByDifficulty    map[string]int `json:"byDifficulty"`
	SuccessRate     map[string]int `json:"successRate"`
	FavoriteTopics  []TopicCount   `json:"favoriteTopics"`
	Streak          int            `json:"streak"`
	Achievements    []Achievement  `json:"achievements"`
	RecentActivity  []ActivityDay  `json:"recentActivity"`
}

type StreakInfo struct {
	CurrentStreak   int `json:"current_streak"`
	LongestStreak   int `json:"longest_streak"`
	TotalActiveDays int `json:"total_active_days"`
}

type StatsService interface {
	Overview(ctx context.Context, userID uuid.UUID, timeframe string) (*StatsOverview, error)
	ActivityHeatmap(ctx context.Context, userID uuid.UUID, days int) (map[string]int, error)
	Streak(ctx context.Context, userID uuid.UUID) (*StreakInfo, error)
}

type statsService struct {
	db            *gorm.DB
	log           *logger.Logger
	challengeRepo repos.ChallengeRepo
	answerRepo    repos.AnswerRecordRepo
}

func NewStatsService(db *gorm.DB, log *logger.Logger, challengeRepo repos.ChallengeRepo, answerRepo repos.AnswerRecordRepo) StatsService {
	serviceLog := log.With("service", "StatsService")
	return &statsService{
		db:            db,
		log:           serviceLog,
		challengeRepo: challengeRepo,
		answerRepo:    answerRepo,
	}
}

func (ss *statsService) Overview(ctx context.Context, userID uuid.UUID, timeframe string) (*StatsOverview, error) {
	challenges, err := ss.challengeRepo.ListAllByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}

	now := time.Now()
	switch timeframe {
	case "week":
		challenges = filterSince(challenges, now.AddDate(0, 0, -7))
	case "month":
		challenges = filterSince(challenges, now.AddDate(0, 0, -30))
	}

	byDifficulty := map[string]int{"easy": 0, "medium": 0, "hard": 0}
	topicCounts := map[string]int{}
	for _, c := range challenges {
		byDifficulty[c.Difficulty]++
		topicCounts[c.Topic]++
	}

	answers, err := ss.answerRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answer records: %w", err)
	}

	streak := calculateStreak(creationDates(challenges))

	overview := &StatsOverview{
		TotalChallenges: len(challenges),
		ByDifficulty:    byDifficulty,
		SuccessRate:     successRates(answers),
		FavoriteTopics:  topTopics(topicCounts, 5),
		Streak:          streak,
		Achievements:    buildAchievements(challenges, byDifficulty, streak, topicCounts, answers),
		RecentActivity:  recentActivity(challenges, now, 7),
	}
	return overview, nil
}

func (ss *statsService) ActivityHeatmap(ctx context.Context, userID uuid.UUID, days int) (map[string]int, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().AddDate(0, 0, -days)
	challenges, err := ss.challengeRepo.ListRecentByUser(ctx, nil, userID, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent challenges: %w", err)
	}

	activity := map[string]int{}
	for _, c := range challenges {
		activity[c.CreatedAt.Format("2006-01-02")]++
	}
	return activity, nil
}

func (ss *statsService) Streak(ctx context.Context, userID uuid.UUID) (*StreakInfo, error) {
	challenges, err := ss.challengeRepo.ListAllByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list challenges: %w", err)
	}
	dates := creationDates(challenges)
	return &StreakInfo{
		CurrentStreak:   calculateStreak(dates),
		LongestStreak:   longestStreak(dates),
		TotalActiveDays: len(uniqueDays(dates)),
	}, nil
}

func filterSince(challenges []*types.Challenge, cutoff time.Time) []*types.Challenge {
	out := make([]*types.Challenge, 0, len(challenges))
	for _, c := range challenges {
		if !c.CreatedAt.Before(cutoff) {
			out = append(out, c)
		}
	}
	return out
}

func creationDates(challenges []*types.Challenge) []time.Time {
	dates := make([]time.Time, 0, len(challenges))
	for _, c := range challenges {
		dates = append(dates, c.CreatedAt)
	}
	return dates
}

func uniqueDays(dates []time.Time) []time.Time {
	seen := map[string]time.Time{}
	for _, d := range dates {
		day := d.Truncate(24 * time.Hour)
		seen[day.Format("2006-01-02")] = day
	}
	days := make([]time.Time, 0, len(seen))
	for _, day := range seen {
		days = append(days, day)
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// calculateStreak counts consecutive active days walking backward from
// the most recent activity day. A gap of more than one day ends the
// streak; no activity at all means zero.
func calculateStreak(dates []time.Time) int {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0
	}
	streak := 1
	for i := len(days) - 1; i > 0; i-- {
		diff := int(days[i].Sub(days[i-1]).Hours() / 24)
		if diff == 1 {
			streak++
		} else {
			break
		}
	}
	return streak
}

func longestStreak(dates []time.Time) int {
	days := uniqueDays(dates)
	if len(days) == 0 {
		return 0
	}
	longest, current := 1, 1
	for i := 1; i < len(days); i++ {
		if int(days[i].Sub(days[i-1]).Hours()/24) == 1 {
			current++
			if current > longest {
				longest = current
			}
		} else {
			current = 1
		}
	}
	return longest
}

// successRates aggregates answer records into a percentage per
// difficulty. Difficulties with no recorded answers report zero.
func successRates(answers []*types.AnswerRecord) map[string]int {
	totals := map[string]int{}
	correct := map[string]int{}
	for _, a := range answers {
		totals[a.Difficulty]++
		if a.IsCorrect {
			correct[a.Difficulty]++
		}
	}
	rates := map[string]int{"easy": 0, "medium": 0, "hard": 0}
	for difficulty, total := range totals {
		rates[difficulty] = correct[difficulty] * 100 / total
	}
	return rates
}

func topTopics(topicCounts map[string]int, limit int) []TopicCount {
	topics := make([]TopicCount, 0, len(topicCounts))
	for name, count := range topicCounts {
		topics = append(topics, TopicCount{Name: name, Count: count})
	}
	sort.Slice(topics, func(i, j int) bool {
		if topics[i].Count != topics[j].Count {
			return topics[i].Count > topics[j].Count
		}
		return topics[i].Name < topics[j].Name
	})
	if len(topics) > limit {
		topics = topics[:limit]
	}
	return topics
}

func recentActivity(challenges []*types.Challenge, now time.Time, days int) []ActivityDay {
	perDay := map[string]int{}
	for _, c := range challenges {
		perDay[c.CreatedAt.Format("2006-01-02")]++
	}
	activity := make([]ActivityDay, 0, days)
	for i := days - 1; i >= 0; i-- {
		date := now.AddDate(0, 0, -i).Format("2006-01-02")
		activity = append(activity, ActivityDay{Date: date, Count: perDay[date]})
	}
	return activity
}

func countTopicMatches(challenges []*types.Challenge, terms ...string) int {
	count := 0
	for _, c := range challenges {
		topic := strings.ToLower(c.Topic)
		for _, term := range terms {
			if strings.Contains(topic, term) {
				count++
				break
			}
		}
	}
	return count
}

func progressToward(current, total int) *int {
	if current >= total {
		return nil
	}
	p := current
	return &p
}

func buildAchievements(challenges []*types.Challenge, byDifficulty map[string]int, streak int, topicCounts map[string]int, answers []*types.AnswerRecord) []Achievement {
	total := len(challenges)

	achievements := []Achievement{
		{
			ID:          1,
			Name:        "First Challenge",
			Description: "Completed your first challenge",
			Icon:        "🎯",
			Unlocked:    total >= 1,
		},
		{
			ID:          2,
			Name:        "Week Warrior",
			Description: "7-day streak",
			Icon:        "🔥",
			Unlocked:    streak >= 7,
			Progress:    progressToward(streak, 7),
			Total:       7,
		},
	}

	algorithmCount := countTopicMatches(challenges, "algorithm", "search", "sort")
	achievements = append(achievements, Achievement{
		ID:          3,
		Name:        "Algorithm Master",
		Description: "Completed 10 algorithm challenges",
		Icon:        "🧮",
		Unlocked:    algorithmCount >= 10,
		Progress:    progressToward(algorithmCount, 10),
		Total:       10,
	})

	pythonCount := countTopicMatches(challenges, "python")
	achievements = append(achievements, Achievement{
		ID:          4,
		Name:        "Python Pro",
		Description: "Completed 20 Python challenges",
		Icon:        "🐍",
		Unlocked:    pythonCount >= 20,
		Progress:    progressToward(pythonCount, 20),
		Total:       20,
	})

	jsCount := countTopicMatches(challenges, "javascript", "js")
	achievements = append(achievements, Achievement{
		ID:          5,
		Name:        "JavaScript Ninja",
		Description: "Completed 15 JavaScript challenges",
		Icon:        "🟨",
		Unlocked:    jsCount >= 15,
		Progress:    progressToward(jsCount, 15),
		Total:       15,
	})

	hardCount := byDifficulty["hard"]
	achievements = append(achievements, Achievement{
		ID:          6,
		Name:        "Hard Core",
		Description: "Completed 10 hard challenges",
		Icon:        "💪",
		Unlocked:    hardCount >= 10,
		Progress:    progressToward(hardCount, 10),
		Total:       10,
	})

	achievements = append(achievements, Achievement{
		ID:          7,
		Name:        "Century Club",
		Description: "Completed 100 challenges",
		Icon:        "🎖️",
		Unlocked:    total >= 100,
		Progress:    progressToward(total, 100),
		Total:       100,
	})

	if top := topTopics(topicCounts, 1); len(top) > 0 {
		achievements = append(achievements, Achievement{
			ID:          8,
			Name:        fmt.Sprintf("%s Master", top[0].Name),
			Description: fmt.Sprintf("Completed 10 %s challenges", top[0].Name),
			Icon:        "🏆",
			Unlocked:    top[0].Count >= 10,
			Progress:    progressToward(top[0].Count, 10),
			Total:       10,
		})
	}

	fastAnswer := false
	correctCount := 0
	incorrectCount := 0
	for _, a := range answers {
		if a.IsCorrect && a.ResponseTime > 0 && a.ResponseTime < 30 {
			fastAnswer = true
		}
		if a.IsCorrect {
			correctCount++
		} else {
			incorrectCount++
		}
	}
	achievements = append(achievements, Achievement{
		ID:          9,
		Name:        "Speed Demon",
		Description: "Complete a challenge in under 30 seconds",
		Icon:        "⚡",
		Unlocked:    fastAnswer,
	})
	achievements = append(achievements, Achievement{
		ID:          10,
		Name:        "Perfectionist",
		Description: "100% success rate on 5 challenges",
		Icon:        "🏆",
		Unlocked:    correctCount >= 5 && incorrectCount == 0,
	})

	return achievements
}
