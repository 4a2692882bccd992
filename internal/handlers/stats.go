package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/codequest/codequest-backend/internal/services"
)

type StatsHandler struct {
	statsSvc services.StatsService
}

func NewStatsHandler(statsSvc services.StatsService) *StatsHandler {
	return &StatsHandler{statsSvc: statsSvc}
}

// GET /api/stats?timeframe=all|week|month
func (sh *StatsHandler) Overview(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	timeframe := c.DefaultQuery("timeframe", "all")
	overview, err := sh.statsSvc.Overview(c.Request.Context(), userID, timeframe)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "stats_failed", err)
		return
	}
	RespondOK(c, overview)
}

// GET /api/stats/activity?days=30
func (sh *StatsHandler) Activity(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	days, _ := strconv.Atoi(c.DefaultQuery("days", "30"))
	activity, err := sh.statsSvc.ActivityHeatmap(c.Request.Context(), userID, days)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "activity_failed", err)
		return
	}
	RespondOK(c, gin.H{"activity": activity})
}

// GET /api/stats/streak
func (sh *StatsHandler) Streak(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	streak, err := sh.statsSvc.Streak(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "streak_failed", err)
		return
	}
	RespondOK(c, streak)
}
