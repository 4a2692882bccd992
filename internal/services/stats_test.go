package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/repos"
	"github.com/codequest/codequest-backend/internal/types"
)

func day(offset int) time.Time {
	return time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

func TestCalculateStreak(t *testing.T) {
	if got := calculateStreak(nil); got != 0 {
		t.Fatalf("expected 0 for no activity, got %d", got)
	}
	if got := calculateStreak([]time.Time{day(0)}); got != 1 {
		t.Fatalf("expected 1 for a single day, got %d", got)
	}
	if got := calculateStreak([]time.Time{day(-2), day(-1), day(0)}); got != 3 {
		t.Fatalf("expected 3 for three consecutive days, got %d", got)
	}
	if got := calculateStreak([]time.Time{day(-5), day(-1), day(0)}); got != 2 {
		t.Fatalf("expected gap to cut streak at 2, got %d", got)
	}
	// Several activities on one day count once.
	if got := calculateStreak([]time.Time{day(0), day(0), day(-1)}); got != 2 {
		t.Fatalf("expected duplicate days to collapse, got %d", got)
	}
}

func TestLongestStreak(t *testing.T) {
	if got := longestStreak(nil); got != 0 {
		t.Fatalf("expected 0 for no activity, got %d", got)
	}
	dates := []time.Time{day(-9), day(-8), day(-7), day(-6), day(-2), day(-1)}
	if got := longestStreak(dates); got != 4 {
		t.Fatalf("expected longest run of 4, got %d", got)
	}
}

func TestSuccessRates(t *testing.T) {
	answers := []*types.AnswerRecord{
		{Difficulty: "easy", IsCorrect: true},
		{Difficulty: "easy", IsCorrect: true},
		{Difficulty: "easy", IsCorrect: false},
		{Difficulty: "hard", IsCorrect: false},
	}
	rates := successRates(answers)
	if rates["easy"] != 66 {
		t.Fatalf("expected easy rate 66, got %d", rates["easy"])
	}
	if rates["hard"] != 0 {
		t.Fatalf("expected hard rate 0, got %d", rates["hard"])
	}
	if rates["medium"] != 0 {
		t.Fatalf("expected medium rate 0 with no answers, got %d", rates["medium"])
	}
}

func TestTopTopics(t *testing.T) {
	counts := map[string]int{"Python": 5, "Go": 5, "SQL": 1, "Rust": 2}
	topics := topTopics(counts, 3)
	if len(topics) != 3 {
		t.Fatalf("expected 3 topics, got %d", len(topics))
	}
	// Ties break alphabetically.
	if topics[0].Name != "Go" || topics[1].Name != "Python" || topics[2].Name != "Rust" {
		t.Fatalf("unexpected ordering: %+v", topics)
	}
}

func TestBuildAchievements(t *testing.T) {
	challenges := []*types.Challenge{
		{Topic: "Python", Difficulty: "easy"},
		{Topic: "Sorting Algorithms", Difficulty: "hard"},
	}
	byDifficulty := map[string]int{"easy": 1, "medium": 0, "hard": 1}
	answers := []*types.AnswerRecord{
		{IsCorrect: true, ResponseTime: 12},
	}
	achievements := buildAchievements(challenges, byDifficulty, 2, map[string]int{"Python": 1, "Sorting Algorithms": 1}, answers)

	byName := map[string]Achievement{}
	for _, a := range achievements {
		byName[a.Name] = a
	}

	if !byName["First Challenge"].Unlocked {
		t.Fatalf("expected First Challenge unlocked")
	}
	ww := byName["Week Warrior"]
	if ww.Unlocked {
		t.Fatalf("expected Week Warrior locked at streak 2")
	}
	if ww.Progress == nil || *ww.Progress != 2 {
		t.Fatalf("expected Week Warrior progress 2, got %+v", ww.Progress)
	}
	if !byName["Speed Demon"].Unlocked {
		t.Fatalf("expected Speed Demon unlocked for a fast correct answer")
	}
	if byName["Perfectionist"].Unlocked {
		t.Fatalf("expected Perfectionist locked below 5 correct answers")
	}
	if byName["Century Club"].Unlocked {
		t.Fatalf("expected Century Club locked at 2 challenges")
	}
	if byName["First Challenge"].Icon != "🎯" || byName["Week Warrior"].Icon != "🔥" {
		t.Fatalf("unexpected icons: %q %q", byName["First Challenge"].Icon, byName["Week Warrior"].Icon)
	}
	for _, a := range achievements {
		if a.Icon == "" {
			t.Fatalf("achievement %q has no icon", a.Name)
		}
	}
}

func TestStatsOverview_AggregatesStoredChallenges(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	challengeRepo := repos.NewChallengeRepo(db, log)
	quotaRepo := repos.NewChallengeQuotaRepo(db, log)
	answerRepo := repos.NewAnswerRecordRepo(db, log)
	challengeSvc := NewChallengeService(db, log, &stubGenerator{}, challengeRepo, quotaRepo, answerRepo, 10)
	statsSvc := NewStatsService(db, log, challengeRepo, answerRepo)

	userID := uuid.New()
	ctx := context.Background()

	challenge, _, err := challengeSvc.GenerateChallenge(ctx, userID, "Python", genai.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if _, _, err := challengeSvc.GenerateChallenge(ctx, userID, "Python", genai.DifficultyHard, ""); err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if _, err := challengeSvc.ValidateAnswer(ctx, userID, challenge.ID, challenge.CorrectAnswerIndex, 10); err != nil {
		t.Fatalf("answer failed: %v", err)
	}

	overview, err := statsSvc.Overview(ctx, userID, "all")
	if err != nil {
		t.Fatalf("overview failed: %v", err)
	}
	if overview.TotalChallenges != 2 {
		t.Fatalf("expected 2 challenges, got %d", overview.TotalChallenges)
	}
	if overview.ByDifficulty["easy"] != 1 || overview.ByDifficulty["hard"] != 1 {
		t.Fatalf("unexpected difficulty split: %+v", overview.ByDifficulty)
	}
	if overview.Streak != 1 {
		t.Fatalf("expected streak 1, got %d", overview.Streak)
	}
	if overview.SuccessRate["easy"] != 100 {
		t.Fatalf("expected easy success rate 100, got %d", overview.SuccessRate["easy"])
	}
	if len(overview.FavoriteTopics) == 0 || overview.FavoriteTopics[0].Name != "Python" {
		t.Fatalf("expected Python as favorite topic, got %+v", overview.FavoriteTopics)
	}
	if len(overview.RecentActivity) != 7 {
		t.Fatalf("expected 7 activity days, got %d", len(overview.RecentActivity))
	}
	if overview.RecentActivity[6].Count != 2 {
		t.Fatalf("expected today's activity count 2, got %d", overview.RecentActivity[6].Count)
	}
}

func TestStreakService_ReportsTotals(t *testing.T) {
	db := newTestDB(t)
	log := newTestLogger(t)
	challengeRepo := repos.NewChallengeRepo(db, log)
	quotaRepo := repos.NewChallengeQuotaRepo(db, log)
	answerRepo := repos.NewAnswerRecordRepo(db, log)
	challengeSvc := NewChallengeService(db, log, &stubGenerator{}, challengeRepo, quotaRepo, answerRepo, 10)
	statsSvc := NewStatsService(db, log, challengeRepo, answerRepo)

	userID := uuid.New()
	ctx := context.Background()
	if _, _, err := challengeSvc.GenerateChallenge(ctx, userID, "Go", genai.DifficultyEasy, ""); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	info, err := statsSvc.Streak(ctx, userID)
	if err != nil {
		t.Fatalf("streak failed: %v", err)
	}
	if info.CurrentStreak != 1 || info.LongestStreak != 1 || info.TotalActiveDays != 1 {
		t.Fatalf("unexpected streak info: %+v", info)
	}
}
