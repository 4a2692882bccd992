package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/codequest/codequest-backend/internal/genai"
	"github.com/codequest/codequest-backend/internal/logger"
	"github.com/codequest/codequest-backend/internal/requestdata"
	"github.com/codequest/codequest-backend/internal/services"
	"github.com/codequest/codequest-backend/internal/types"
)

type ChallengeHandler struct {
	log          *logger.Logger
	challengeSvc services.ChallengeService
	explainSvc   services.ExplainService
}

func NewChallengeHandler(log *logger.Logger, challengeSvc services.ChallengeService, explainSvc services.ExplainService) *ChallengeHandler {
	return &ChallengeHandler{
		log:          log.With("handler", "ChallengeHandler"),
		challengeSvc: challengeSvc,
		explainSvc:   explainSvc,
	}
}

// challengeView mirrors types.Challenge but with the options decoded
// back into a list for clients.
type challengeView struct {
	*types.Challenge
	Options []string `json:"options"`
}

func newChallengeView(challenge *types.Challenge) challengeView {
	var options []string
	if err := json.Unmarshal([]byte(challenge.Options), &options); err != nil {
		options = []string{}
	}
	return challengeView{Challenge: challenge, Options: options}
}

func newChallengeViews(challenges []*types.Challenge) []challengeView {
	views := make([]challengeView, 0, len(challenges))
	for _, challenge := range challenges {
		views = append(views, newChallengeView(challenge))
	}
	return views
}

func currentUserID(c *gin.Context) (uuid.UUID, error) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil || rd.UserID == uuid.Nil {
		return uuid.Nil, services.ErrUnauthenticated
	}
	return rd.UserID, nil
}

// POST /api/challenges/generate
func (ch *ChallengeHandler) Generate(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	var req struct {
		Topic      string `json:"topic"`
		Difficulty string `json:"difficulty"`
		SubTopic   string `json:"sub_topic"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Topic == "" {
		RespondError(c, http.StatusBadRequest, "missing_topic", fmt.Errorf("topic is required"))
		return
	}

	challenge, quota, err := ch.challengeSvc.GenerateChallenge(c.Request.Context(), userID, req.Topic, req.Difficulty, req.SubTopic)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidDifficulty):
			RespondError(c, http.StatusBadRequest, "invalid_difficulty", err)
		case errors.Is(err, services.ErrQuotaExhausted):
			RespondError(c, http.StatusTooManyRequests, "quota_exhausted", err)
		default:
			ch.log.Error("Challenge generation failed", "user_id", userID, "error", err)
			RespondError(c, http.StatusInternalServerError, "generate_failed", err)
		}
		return
	}
	RespondOK(c, gin.H{
		"challenge":       newChallengeView(challenge),
		"quota_remaining": quota.QuotaRemaining,
	})
}

// GET /api/challenges/quota
func (ch *ChallengeHandler) GetQuota(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	quota, err := ch.challengeSvc.GetQuota(c.Request.Context(), userID)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "quota_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"quota_remaining": quota.QuotaRemaining,
		"daily_quota":     ch.challengeSvc.DailyQuota(),
		"last_reset_date": quota.LastResetDate,
	})
}

// GET /api/challenges/history?limit=&offset=
func (ch *ChallengeHandler) History(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	challenges, total, err := ch.challengeSvc.History(c.Request.Context(), userID, limit, offset)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "history_failed", err)
		return
	}
	RespondOK(c, gin.H{
		"challenges": newChallengeViews(challenges),
		"total":      total,
		"limit":      limit,
		"offset":     offset,
	})
}

// GET /api/challenges/search?q=
func (ch *ChallengeHandler) Search(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	term := c.Query("q")
	if term == "" {
		RespondError(c, http.StatusBadRequest, "missing_query", fmt.Errorf("query parameter q is required"))
		return
	}
	challenges, err := ch.challengeSvc.Search(c.Request.Context(), userID, term)
	if err != nil {
		RespondError(c, http.StatusInternalServerError, "search_failed", err)
		return
	}
	RespondOK(c, gin.H{"challenges": newChallengeViews(challenges)})
}

// GET /api/challenges/:id
func (ch *ChallengeHandler) GetByID(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	challenge, err := ch.challengeSvc.GetByID(c.Request.Context(), userID, challengeID)
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "get_failed", err)
		return
	}
	RespondOK(c, newChallengeView(challenge))
}

// DELETE /api/challenges/:id
func (ch *ChallengeHandler) Delete(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	challengeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if err := ch.challengeSvc.Delete(c.Request.Context(), userID, challengeID); err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "delete_failed", err)
		return
	}
	RespondOK(c, gin.H{"deleted": true})
}

// POST /api/challenges/validate-answer
func (ch *ChallengeHandler) ValidateAnswer(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	var req struct {
		ChallengeID   string  `json:"challenge_id"`
		SelectedIndex *int    `json:"selected_index"`
		ResponseTime  float64 `json:"response_time"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	challengeID, err := uuid.Parse(req.ChallengeID)
	if err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_id", err)
		return
	}
	if req.SelectedIndex == nil {
		RespondError(c, http.StatusBadRequest, "missing_selected_index", fmt.Errorf("selected_index is required"))
		return
	}

	result, err := ch.challengeSvc.ValidateAnswer(c.Request.Context(), userID, challengeID, *req.SelectedIndex, req.ResponseTime)
	if err != nil {
		if errors.Is(err, services.ErrChallengeNotFound) {
			RespondError(c, http.StatusNotFound, "not_found", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "validate_failed", err)
		return
	}
	RespondOK(c, result)
}

// POST /api/challenges/explain-code
func (ch *ChallengeHandler) ExplainCode(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	var req struct {
		Code     string `json:"code"`
		Problem  string `json:"problem"`
		Language string `json:"language"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_body", err)
		return
	}
	if req.Code == "" {
		RespondError(c, http.StatusBadRequest, "missing_code", fmt.Errorf("code is required"))
		return
	}

	explanation, err := ch.explainSvc.ExplainCode(c.Request.Context(), req.Code, req.Problem, req.Language)
	if err != nil {
		ch.log.Error("Code explanation failed", "user_id", userID, "error", err)
		if errors.Is(err, genai.ErrModelUnavailable) {
			RespondError(c, http.StatusServiceUnavailable, "model_unavailable", err)
			return
		}
		RespondError(c, http.StatusInternalServerError, "explain_failed", err)
		return
	}
	RespondOK(c, explanation)
}
