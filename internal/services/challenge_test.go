package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/repos"
)

func newChallengeServiceForTest(t *testing.T, dailyQuota int) (ChallengeService, *stubGenerator, repos.ChallengeQuotaRepo, repos.AnswerRecordRepo) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	gen := &stubGenerator{}
	challengeRepo := repos.NewChallengeRepo(db, log)
	quotaRepo := repos.NewChallengeQuotaRepo(db, log)
	answerRepo := repos.NewAnswerRecordRepo(db, log)
	svc := NewChallengeService(db, log, gen, challengeRepo, quotaRepo, answerRepo, dailyQuota)
	return svc, gen, quotaRepo, answerRepo
}

func TestGenerateChallenge_PersistsAndDecrementsQuota(t *testing.T) {
	svc, gen, _, _ := newChallengeServiceForTest(t, 3)
	userID := uuid.New()
	ctx := context.Background()

	challenge, quota, err := svc.GenerateChallenge(ctx, userID, "arrays", genai.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("expected generation to succeed, got %v", err)
	}
	if challenge.Title != "Stub arrays" {
		t.Fatalf("unexpected challenge title: %q", challenge.Title)
	}
	if quota.QuotaRemaining != 2 {
		t.Fatalf("expected quota 2 after one generation, got %d", quota.QuotaRemaining)
	}
	if gen.calls != 1 {
		t.Fatalf("expected 1 pipeline call, got %d", gen.calls)
	}

	stored, err := svc.GetByID(ctx, userID, challenge.ID)
	if err != nil {
		t.Fatalf("expected stored challenge, got %v", err)
	}
	if stored.CreatedBy != userID {
		t.Fatalf("expected challenge owned by %s, got %s", userID, stored.CreatedBy)
	}
	// created_at is filled by the database; streak and activity
	// aggregation depend on it being set.
	if stored.CreatedAt.IsZero() {
		t.Fatalf("expected stored challenge to carry a creation timestamp")
	}
}

func TestGenerateChallenge_ExhaustsQuota(t *testing.T) {
	svc, _, _, _ := newChallengeServiceForTest(t, 2)
	userID := uuid.New()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, _, err := svc.GenerateChallenge(ctx, userID, "arrays", genai.DifficultyEasy, ""); err != nil {
			t.Fatalf("generation %d failed: %v", i+1, err)
		}
	}
	_, quota, err := svc.GenerateChallenge(ctx, userID, "arrays", genai.DifficultyEasy, "")
	if !errors.Is(err, ErrQuotaExhausted) {
		t.Fatalf("expected ErrQuotaExhausted, got %v", err)
	}
	if quota == nil || quota.QuotaRemaining != 0 {
		t.Fatalf("expected zero quota returned with the error, got %+v", quota)
	}
}

func TestGenerateChallenge_RejectsInvalidDifficulty(t *testing.T) {
	svc, gen, _, _ := newChallengeServiceForTest(t, 2)

	_, _, err := svc.GenerateChallenge(context.Background(), uuid.New(), "arrays", "impossible", "")
	if !errors.Is(err, ErrInvalidDifficulty) {
		t.Fatalf("expected ErrInvalidDifficulty, got %v", err)
	}
	if gen.calls != 0 {
		t.Fatalf("expected no pipeline calls, got %d", gen.calls)
	}
}

func TestGetQuota_ResetsAfterRollingWindow(t *testing.T) {
	svc, _, quotaRepo, _ := newChallengeServiceForTest(t, 5)
	userID := uuid.New()
	ctx := context.Background()

	quota, err := svc.GetQuota(ctx, userID)
	if err != nil {
		t.Fatalf("expected quota creation, got %v", err)
	}
	if quota.QuotaRemaining != 5 {
		t.Fatalf("expected fresh quota of 5, got %d", quota.QuotaRemaining)
	}

	quota.QuotaRemaining = 0
	quota.LastResetDate = time.Now().Add(-25 * time.Hour)
	if err := quotaRepo.Save(ctx, nil, quota); err != nil {
		t.Fatalf("failed to age quota: %v", err)
	}

	refreshed, err := svc.GetQuota(ctx, userID)
	if err != nil {
		t.Fatalf("expected quota reset, got %v", err)
	}
	if refreshed.QuotaRemaining != 5 {
		t.Fatalf("expected quota reset to 5, got %d", refreshed.QuotaRemaining)
	}
}

func TestGetQuota_DoesNotResetWithinWindow(t *testing.T) {
	svc, _, quotaRepo, _ := newChallengeServiceForTest(t, 5)
	userID := uuid.New()
	ctx := context.Background()

	quota, err := svc.GetQuota(ctx, userID)
	if err != nil {
		t.Fatalf("expected quota creation, got %v", err)
	}
	quota.QuotaRemaining = 1
	quota.LastResetDate = time.Now().Add(-23 * time.Hour)
	if err := quotaRepo.Save(ctx, nil, quota); err != nil {
		t.Fatalf("failed to age quota: %v", err)
	}

	refreshed, err := svc.GetQuota(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if refreshed.QuotaRemaining != 1 {
		t.Fatalf("expected quota untouched at 1, got %d", refreshed.QuotaRemaining)
	}
}

func TestValidateAnswer_EvaluatesAndRecords(t *testing.T) {
	svc, _, _, answerRepo := newChallengeServiceForTest(t, 5)
	userID := uuid.New()
	ctx := context.Background()

	challenge, _, err := svc.GenerateChallenge(ctx, userID, "arrays", genai.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	correct, err := svc.ValidateAnswer(ctx, userID, challenge.ID, challenge.CorrectAnswerIndex, 12.5)
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if !correct.IsCorrect {
		t.Fatalf("expected correct answer to be accepted")
	}
	if correct.Explanation != "Correct! Well done." {
		t.Fatalf("unexpected explanation: %q", correct.Explanation)
	}

	wrong, err := svc.ValidateAnswer(ctx, userID, challenge.ID, challenge.CorrectAnswerIndex+1, 40)
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if wrong.IsCorrect {
		t.Fatalf("expected wrong answer to be rejected")
	}
	if wrong.Explanation != challenge.Explanation {
		t.Fatalf("expected stored explanation on wrong answer, got %q", wrong.Explanation)
	}
	if wrong.CorrectAnswerIndex != challenge.CorrectAnswerIndex {
		t.Fatalf("expected correct index %d, got %d", challenge.CorrectAnswerIndex, wrong.CorrectAnswerIndex)
	}

	records, err := answerRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		t.Fatalf("failed to list answer records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 answer records, got %d", len(records))
	}
}

func TestValidateAnswer_UnknownChallenge(t *testing.T) {
	svc, _, _, _ := newChallengeServiceForTest(t, 5)

	_, err := svc.ValidateAnswer(context.Background(), uuid.New(), uuid.New(), 0, 1)
	if !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestDeleteAndHistory(t *testing.T) {
	svc, _, _, _ := newChallengeServiceForTest(t, 5)
	userID := uuid.New()
	ctx := context.Background()

	first, _, err := svc.GenerateChallenge(ctx, userID, "arrays", genai.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if _, _, err := svc.GenerateChallenge(ctx, userID, "graphs", genai.DifficultyMedium, ""); err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	challenges, total, err := svc.History(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if total != 2 || len(challenges) != 2 {
		t.Fatalf("expected 2 challenges, got len=%d total=%d", len(challenges), total)
	}

	if err := svc.Delete(ctx, userID, first.ID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.Delete(ctx, userID, first.ID); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound on repeat delete, got %v", err)
	}

	_, total, err = svc.History(ctx, userID, 10, 0)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if total != 1 {
		t.Fatalf("expected 1 challenge after delete, got %d", total)
	}
}

func TestDelete_IgnoresOtherUsersChallenges(t *testing.T) {
	svc, _, _, _ := newChallengeServiceForTest(t, 5)
	owner := uuid.New()
	ctx := context.Background()

	challenge, _, err := svc.GenerateChallenge(ctx, owner, "arrays", genai.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if err := svc.Delete(ctx, uuid.New(), challenge.ID); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound for foreign user, got %v", err)
	}
	if _, err := svc.GetByID(ctx, owner, challenge.ID); err != nil {
		t.Fatalf("expected challenge to survive foreign delete, got %v", err)
	}
}
