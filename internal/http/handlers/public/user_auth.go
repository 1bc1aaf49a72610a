package public

import (
	"github.com/techstore-next/internal/constants"
	handlershared "github.com/techstore-next/internal/http/handlers/shared"
	"github.com/techstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// UserLoginRequest 登录请求
type UserLoginRequest struct {
	Email          string                              `json:"email" binding:"required"`
	Password       string                              `json:"password" binding:"required"`
	CaptchaPayload handlershared.CaptchaPayloadRequest `json:"captcha_payload"`
}

// UserLogin 用户登录
func (h *Handler) UserLogin(c *gin.Context) {
	var req UserLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if h.CaptchaService != nil {
		if err := h.CaptchaService.Verify(constants.CaptchaSceneLogin, req.CaptchaPayload.ToServicePayload()); err != nil {
			respondLoginError(c, err)
			return
		}
	}

	user, token, expiresAt, err := h.UserAuthService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		requestLog(c).Infow("user_login_failed", "email", req.Email, "client_ip", c.ClientIP(), "error", err)
		respondLoginError(c, err)
		return
	}

	requestLog(c).Infow("user_login_success", "user_id", user.ID, "client_ip", c.ClientIP())
	response.Success(c, gin.H{
		"user":       user,
		"token":      token,
		"expires_at": expiresAt,
	})
}

// GetCurrentUser 当前登录用户
func (h *Handler) GetCurrentUser(c *gin.Context) {
	userID := optionalUserID(c)
	if userID == nil {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}
	user, err := h.UserRepo.GetByID(*userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	if user == nil {
		respondError(c, response.CodeUnauthorized, "error.unauthorized", nil)
		return
	}
	response.Success(c, user)
}
