// Package handler 提供 HTTP 请求处理器
// 本文件处理直播间生命周期相关的 API 请求
package handler

import (
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/service"
	"muse_live_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// LiveHandler 直播间请求处理器
type LiveHandler struct {
	svc service.LiveService
}

// NewLiveHandler 创建直播间处理器
func NewLiveHandler(svc service.LiveService) *LiveHandler {
	return &LiveHandler{svc: svc}
}

// StartLive 开播
// POST /api/live/start
// 签发房间 id 和 RTC token，登记房间会话；只能以本人身份开播
func (h *LiveHandler) StartLive(c *gin.Context) {
	var req request.StartLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if userId, ok := c.Get("user_id"); ok && userId != req.OwnerId {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "无权以他人身份开播"))
		return
	}
	rsp, err := h.svc.StartLive(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// StopLive 关播，幂等
// POST /api/live/stop
// 目标主播必须是令牌持有者本人，防止他人远程关播
func (h *LiveHandler) StopLive(c *gin.Context) {
	var req request.StopLiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if userId, ok := c.Get("user_id"); ok && userId != req.OwnerId {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "无权关闭他人直播间"))
		return
	}
	if err := h.svc.StopLive(req); err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, nil)
}

// GetLiveUsers 正在直播的用户列表
// GET /api/live/users
func (h *LiveHandler) GetLiveUsers(c *gin.Context) {
	rsp, err := h.svc.GetLiveUsers()
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
