package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/marketplace/internal/model"
	"github.com/d60-Lab/marketplace/internal/service"
	"github.com/d60-Lab/marketplace/pkg/response"
)

type loginRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type createUserRequest struct {
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6"`
	Role     string `json:"role"`
}

type updateUserRequest struct {
	Name   *string `json:"name"`
	Email  *string `json:"email" binding:"omitempty,email"`
	Role   *string `json:"role"`
	Status *string `json:"status"`
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// login 返回按角色限制的登录 handler
func (h *Handler) login(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "invalid request body")
			return
		}
		res, err := h.userService.Login(c.Request.Context(), service.LoginInput{
			Email:    req.Email,
			Name:     req.Name,
			Password: req.Password,
		}, roles...)
		if err != nil {
			writeError(c, err)
			return
		}
		response.Success(c, res)
	}
}

// AdminLogin 后台登录
// @Summary 管理员登录
// @Tags 登录
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /admin/login [post]
func (h *Handler) AdminLogin(c *gin.Context) {
	h.login(model.RoleAdmin, model.RoleSuperAdmin)(c)
}

// BuyerLogin 买家登录
// @Summary 买家登录
// @Tags 登录
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} response.Response
// @Router /buyer/login [post]
func (h *Handler) BuyerLogin(c *gin.Context) {
	h.login(model.RoleBuyer)(c)
}

// SellerLogin 卖家登录
// @Summary 卖家登录
// @Tags 登录
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} service.LoginResult
// @Failure 401 {object} response.Response
// @Router /seller/login [post]
func (h *Handler) SellerLogin(c *gin.Context) {
	h.login(model.RoleSeller)(c)
}

// ListUsers 用户列表
// @Summary 用户列表
// @Tags 用户
// @Produce json
// @Success 200 {array} model.User
// @Router /api/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, users)
}

// CreateUser 新建用户
// @Summary 新建用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param request body createUserRequest true "用户信息"
// @Success 201 {object} model.User
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/users [post]
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.Create(c.Request.Context(), service.UserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser 修改用户
// @Summary 修改用户
// @Tags 用户
// @Accept json
// @Produce json
// @Param id path int true "用户ID"
// @Param request body updateUserRequest true "修改字段"
// @Success 200 {object} model.User
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [patch]
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	user, err := h.userService.Update(c.Request.Context(), id, service.UserUpdate{
		Name:   req.Name,
		Email:  req.Email,
		Role:   req.Role,
		Status: req.Status,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除用户
// @Summary 删除用户
// @Tags 用户
// @Param id path int true "用户ID"
// @Success 200 {object} response.OK
// @Failure 404 {object} response.Response
// @Router /api/users/{id} [delete]
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}

// ResetPassword 重置密码
// @Summary 重置密码
// @Tags 用户
// @Accept json
// @Param id path int true "用户ID"
// @Param request body resetPasswordRequest true "新密码"
// @Success 200 {object} response.OK
// @Router /api/users/{id}/reset-password [post]
func (h *Handler) ResetPassword(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}
	if err := h.userService.ResetPassword(c.Request.Context(), id, req.Password); err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, nil)
}
