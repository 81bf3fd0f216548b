// Package handler 提供 HTTP 请求处理器
// 本文件处理账号相关的 API 请求
package handler

import (
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/service"
	"muse_live_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// AuthHandler 账号请求处理器
type AuthHandler struct {
	svc service.UserService
}

// NewAuthHandler 创建账号处理器
func NewAuthHandler(svc service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Register 用户注册
// POST /api/auth/register
// 注册成功直接返回登录态（令牌对）
func (h *AuthHandler) Register(c *gin.Context) {
	var req request.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.svc.Register(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// Login 密码登录
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.svc.Login(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// RefreshToken 刷新令牌对
// POST /api/auth/refresh
// 单点互踢：tokenID 与 Redis 中最新记录不一致时拒绝
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.svc.RefreshToken(req.RefreshToken)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// GetUserInfo 获取用户资料
// GET /api/auth/user/:uuid
func (h *AuthHandler) GetUserInfo(c *gin.Context) {
	uuid := c.Param("uuid")
	if uuid == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	rsp, err := h.svc.GetUserInfo(uuid)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// UpdateUserInfo 更新用户资料
// POST /api/auth/user/update
// 只允许更新本人资料，目标 uuid 必须和令牌持有者一致
func (h *AuthHandler) UpdateUserInfo(c *gin.Context) {
	var req request.UpdateUserInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if userId, ok := c.Get("user_id"); ok && userId != req.Uuid {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "无权修改他人资料"))
		return
	}
	if err := h.svc.UpdateUserInfo(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}
