// Package handler 提供 HTTP 请求处理器
// 本文件处理 WebSocket 连接入口
package handler

import (
	"muse_live_server/internal/service/live"

	"github.com/gin-gonic/gin"
)

// WsHandler WebSocket 连接处理器
type WsHandler struct {
	hub *live.Hub
}

// NewWsHandler 创建 WebSocket 处理器
func NewWsHandler(hub *live.Hub) *WsHandler {
	return &WsHandler{hub: hub}
}

// Connect 升级 HTTP 连接为 WebSocket
// GET /wss
// 连接建立后用户身份由 userOnline 事件绑定
func (h *WsHandler) Connect(c *gin.Context) {
	live.NewClientInit(c, h.hub)
}
