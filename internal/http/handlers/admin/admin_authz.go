package admin

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/techstore-next/internal/cache"
	"github.com/techstore-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzPolicyPayload struct {
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

type authzSetUserRolesPayload struct {
	Roles []string `json:"roles"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("admin_authz_role_created", "operator_id", operatorID, "role", role)
	response.Success(c, gin.H{"role": role})
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	role := decodeRoleParam(c.Param("role"))
	if role == "" {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return
	}
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	requestLog(c).Infow("admin_authz_policy_granted",
		"operator_id", operatorID,
		"role", role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// GetAuthzUserRoles 查询用户角色
func (h *Handler) GetAuthzUserRoles(c *gin.Context) {
	userID, ok := h.resolveTargetUser(c)
	if !ok {
		return
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}

// SetAuthzUserRoles 覆盖设置用户角色
func (h *Handler) SetAuthzUserRoles(c *gin.Context) {
	operatorID, ok := getOperatorID(c)
	if !ok {
		return
	}
	userID, ok := h.resolveTargetUser(c)
	if !ok {
		return
	}
	var req authzSetUserRolesPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.SetUserRoles(userID, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	if err := cache.DelUserState(c.Request.Context(), userID); err != nil {
		requestLog(c).Warnw("admin_authz_user_state_invalidate_failed", "user_id", userID, "error", err)
	}
	roles, err := h.AuthzService.GetUserRoles(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return
	}
	requestLog(c).Infow("admin_authz_user_roles_updated", "operator_id", operatorID, "user_id", userID, "roles", roles)
	response.Success(c, gin.H{"user_id": userID, "roles": roles})
}

func (h *Handler) resolveTargetUser(c *gin.Context) (uint, bool) {
	userID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || userID == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return 0, false
	}
	user, err := h.UserRepo.GetByID(uint(userID))
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal_error", err)
		return 0, false
	}
	if user == nil {
		respondError(c, response.CodeNotFound, "error.user_not_found", nil)
		return 0, false
	}
	return user.ID, true
}

func decodeRoleParam(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return strings.TrimSpace(raw)
	}
	return strings.TrimSpace(decoded)
}
