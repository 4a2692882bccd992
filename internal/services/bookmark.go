package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/repos"
	"github.com/codequest/codequest-backend/internal/types"
)

type BookmarkService interface {
	Add(ctx context.Context, userID, challengeID uuid.UUID) (*types.ChallengeBookmark, error)
	List(ctx context.Context, userID uuid.UUID) ([]*types.ChallengeBookmark, error)
	Remove(ctx context.Context, userID, challengeID uuid.UUID) error
}

type bookmarkService struct {
	db            *gorm.DB
	log           *logger.Logger
	bookmarkRepo  repos.ChallengeBookmarkRepo
	challengeRepo repos.ChallengeRepo
}

func NewBookmarkService(db *gorm.DB, log *logger.Logger, bookmarkRepo repos.ChallengeBookmarkRepo, challengeRepo repos.ChallengeRepo) BookmarkService {
	serviceLog := log.With("service", "BookmarkService")
	return &bookmarkService{
		db:            db,
		log:           serviceLog,
		bookmarkRepo:  bookmarkRepo,
		challengeRepo: challengeRepo,
	}
}

func (bs *bookmarkService) Add(ctx context.Context, userID, challengeID uuid.UUID) (*types.ChallengeBookmark, error) {
	challenge, err := bs.challengeRepo.GetByID(ctx, nil, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load challenge: %w", err)
	}
	if challenge == nil {
		return nil, ErrChallengeNotFound
	}

	existing, err := bs.bookmarkRepo.GetByUserAndChallenge(ctx, nil, userID, challengeID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing bookmark: %w", err)
	}
	if existing != nil {
		return nil, ErrAlreadyBookmarked
	}

	bookmark := &types.ChallengeBookmark{
		ID:          uuid.New(),
		UserID:      userID,
		ChallengeID: challengeID,
	}
	if _, cErr := bs.bookmarkRepo.Create(ctx, nil, bookmark); cErr != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", cErr)
	}
	bs.log.Info("Bookmark added", "user_id", userID, "challenge_id", challengeID)
	bookmark.Challenge = challenge
	return bookmark, nil
}

func (bs *bookmarkService) List(ctx context.Context, userID uuid.UUID) ([]*types.ChallengeBookmark, error) {
	bookmarks, err := bs.bookmarkRepo.ListByUser(ctx, nil, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}
	return bookmarks, nil
}

func (bs *bookmarkService) Remove(ctx context.Context, userID, challengeID uuid.UUID) error {
	removed, err := bs.bookmarkRepo.DeleteByUserAndChallenge(ctx, nil, userID, challengeID)
	if err != nil {
		return fmt.Errorf("failed to remove bookmark: %w", err)
	}
	if !removed {
		return ErrBookmarkNotFound
	}
	bs.log.Info("Bookmark removed", "user_id", userID, "challenge_id", challengeID)
	return nil
}
