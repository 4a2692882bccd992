package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/services"
)

type DailyChallengeHandler struct {
	log      *logger.Logger
	dailySvc services.DailyChallengeService
}

func NewDailyChallengeHandler(log *logger.Logger, dailySvc services.DailyChallengeService) *DailyChallengeHandler {
	return &DailyChallengeHandler{
		log:      log.With("handler", "DailyChallengeHandler"),
		dailySvc: dailySvc,
	}
}

// GET /api/daily
func (dh *DailyChallengeHandler) GetToday(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	status, err := dh.dailySvc.GetToday(c.Request.Context(), userID)
	if err != nil {
		dh.log.Error("Failed to load daily challenge", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "daily_failed", err)
		return
	}
	RespondOK(c, status)
}

// POST /api/daily/complete
func (dh *DailyChallengeHandler) Complete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	var req struct {
		SelectedIndex *int `json:"selected_index"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.SelectedIndex == nil {
		RespondError(c, http.StatusBadRequest, "missing_selected_index", fmt.Errorf("selected_index is required"))
		return
	}
	result, err := dh.dailySvc.Complete(c.Request.Context(), userID, *req.SelectedIndex)
	if err != nil {
		dh.log.Error("Failed to complete daily challenge", "user_id", userID, "error", err)
		RespondError(c, http.StatusInternalServerError, "daily_complete_failed", err)
		return
	}
	RespondOK(c, result)
}
