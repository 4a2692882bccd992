package services

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/repos"
)

func newBookmarkServiceForTest(t *testing.T) (BookmarkService, ChallengeService) {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)
	challengeRepo := repos.NewChallengeRepo(db, log)
	quotaRepo := repos.NewChallengeQuotaRepo(db, log)
	answerRepo := repos.NewAnswerRecordRepo(db, log)
	bookmarkRepo := repos.NewChallengeBookmarkRepo(db, log)
	challengeSvc := NewChallengeService(db, log, &stubGenerator{}, challengeRepo, quotaRepo, answerRepo, 10)
	bookmarkSvc := NewBookmarkService(db, log, bookmarkRepo, challengeRepo)
	return bookmarkSvc, challengeSvc
}

func TestBookmark_AddListRemove(t *testing.T) {
	bookmarkSvc, challengeSvc := newBookmarkServiceForTest(t)
	ctx := context.Background()
	userID := uuid.New()

	challenge, _, err := challengeSvc.GenerateChallenge(ctx, userID, "arrays", genai.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}

	bookmark, err := bookmarkSvc.Add(ctx, userID, challenge.ID)
	if err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if bookmark.ChallengeID != challenge.ID {
		t.Fatalf("bookmark references wrong challenge: %s", bookmark.ChallengeID)
	}

	bookmarks, err := bookmarkSvc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bookmarks) != 1 {
		t.Fatalf("expected 1 bookmark, got %d", len(bookmarks))
	}
	if bookmarks[0].Challenge == nil || bookmarks[0].Challenge.ID != challenge.ID {
		t.Fatalf("expected challenge preloaded on bookmark, got %+v", bookmarks[0].Challenge)
	}

	if err := bookmarkSvc.Remove(ctx, userID, challenge.ID); err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	bookmarks, err = bookmarkSvc.List(ctx, userID)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(bookmarks) != 0 {
		t.Fatalf("expected no bookmarks after removal, got %d", len(bookmarks))
	}
}

func TestBookmark_RejectsDuplicates(t *testing.T) {
	bookmarkSvc, challengeSvc := newBookmarkServiceForTest(t)
	ctx := context.Background()
	userID := uuid.New()

	challenge, _, err := challengeSvc.GenerateChallenge(ctx, userID, "arrays", genai.DifficultyEasy, "")
	if err != nil {
		t.Fatalf("generation failed: %v", err)
	}
	if _, err := bookmarkSvc.Add(ctx, userID, challenge.ID); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if _, err := bookmarkSvc.Add(ctx, userID, challenge.ID); !errors.Is(err, ErrAlreadyBookmarked) {
		t.Fatalf("expected ErrAlreadyBookmarked, got %v", err)
	}
}

func TestBookmark_UnknownChallenge(t *testing.T) {
	bookmarkSvc, _ := newBookmarkServiceForTest(t)

	if _, err := bookmarkSvc.Add(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrChallengeNotFound) {
		t.Fatalf("expected ErrChallengeNotFound, got %v", err)
	}
}

func TestBookmark_RemoveMissing(t *testing.T) {
	bookmarkSvc, _ := newBookmarkServiceForTest(t)

	if err := bookmarkSvc.Remove(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrBookmarkNotFound) {
		t.Fatalf("expected ErrBookmarkNotFound, got %v", err)
	}
}
