package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/codequest/codequest-backend/internal/services"
)

type UserHandler struct {
	userService services.UserService
}

func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/user
func (uh *UserHandler) GetMe(c *gin.Context) {
	user, err := uh.userService.GetMe(c.Request.Context())
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "unauthenticated", err)
		return
	}
	RespondOK(c, user)
}
