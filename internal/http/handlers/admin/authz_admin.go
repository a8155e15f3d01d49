package admin

import (
	"github.com/niaga-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

// RoleRequest 角色创建请求
type RoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// RolePolicyRequest 角色策略请求
type RolePolicyRequest struct {
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// AdminRolesRequest 管理员角色绑定请求
type AdminRolesRequest struct {
	Roles []string `json:"roles"`
}

// GetAuthzRoles 获取角色列表 (Admin)
func (h *Handler) GetAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色 (Admin)
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, gin.H{"role": role})
}

// DeleteAuthzRole 删除角色 (Admin)
func (h *Handler) DeleteAuthzRole(c *gin.Context) {
	role := c.Param("role")
	if err := h.AuthzService.DeleteRole(role); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}

// GetAuthzRolePolicies 获取角色策略 (Admin)
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := c.Param("role")
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzRolePolicy 授予角色策略 (Admin)
func (h *Handler) GrantAuthzRolePolicy(c *gin.Context) {
	role := c.Param("role")
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.GrantRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}

// RevokeAuthzRolePolicy 撤销角色策略 (Admin)
func (h *Handler) RevokeAuthzRolePolicy(c *gin.Context) {
	role := c.Param("role")
	var req RolePolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.RevokeRolePolicy(role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}

// GetAdminRoleBindings 获取管理员角色 (Admin)
func (h *Handler) GetAdminRoleBindings(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	roles, err := h.AuthzService.GetAdminRoles(id)
	if err != nil {
		respondError(c, response.CodeInternal, "error.internal", err)
		return
	}
	response.Success(c, roles)
}

// SetAdminRoleBindings 设置管理员角色 (Admin)
func (h *Handler) SetAdminRoleBindings(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req AdminRolesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	if err := h.AuthzService.SetAdminRoles(id, req.Roles); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}
	response.Success(c, nil)
}
