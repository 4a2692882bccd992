package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codequest/codequest-backend/internal/services"
)

type BookmarkHandler struct {
	bookmarkSvc services.BookmarkService
}

func NewBookmarkHandler(bookmarkSvc services.BookmarkService) *BookmarkHandler {
	return &BookmarkHandler{bookmarkSvc: bookmarkSvc}
}

// POST /api/bookmarks/:challengeID
func (bh *BookmarkHandler) Add(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	challengeID, err := uuid.Parse(c.Param("challengeID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	bookmark, err := bh.bookmarkSvc.Add(c.Request.Context(), userID, challengeID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrChallengeNotFound):
			RespondError(c, http.StatusNotFound, "not_found", err)
		case errors.Is(err, services.ErrAlreadyBookmarked):
			RespondError(c, http.StatusConflict, "already_bookmarked", err)
		default:
			RespondError(c, http.StatusInternalServerError, "bookmark_failed", err)
		}
		return
	}
	RespondOK(c, bookmark)
}

// GET /api/bookmarks
func (bh *BookmarkHandler) List(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	bookmarks, err := bh.bookmarkSvc.List(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "bookmark_list_failed", err)
		return
	}
	RespondOK(c, gin.H{"bookmarks": bookmarks})
}

// DELETE /api/bookmarks/:challengeID
func (bh *BookmarkHandler) Remove(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	challengeID, err := uuid.Parse(c.Param("challengeID"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := bh.bookmarkSvc.Remove(c.Request.Context(), userID, challengeID); err != nil {
		if errors.Is(err, services.ErrBookmarkNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "bookmark_remove_failed", err)
		return
	}
	RespondOK(c, gin.H{"removed": true})
}
