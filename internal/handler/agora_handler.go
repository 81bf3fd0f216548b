// Package handler 提供 HTTP 请求处理器
// 本文件处理 RTC token 相关的 API 请求
package handler

import (
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/service"

	"github.com/gin-gonic/gin"
)

// AgoraHandler RTC token 请求处理器
type AgoraHandler struct {
	svc service.AgoraService
}

// NewAgoraHandler 创建 RTC token 处理器
func NewAgoraHandler(svc service.AgoraService) *AgoraHandler {
	return &AgoraHandler{svc: svc}
}

// BuildToken 生成 RTC token
// POST /api/agora/token
// 凭证未配置时返回开发占位 token，不报错
func (h *AgoraHandler) BuildToken(c *gin.Context) {
	var req request.AgoraTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	rsp, err := h.svc.BuildToken(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
