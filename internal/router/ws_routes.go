// Package router 提供 HTTP 路由注册
// 本文件定义 WebSocket 相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterWebSocketRoutes 注册 WebSocket 连接入口
// 连接建立后用户身份由 userOnline 事件绑定，不在 HTTP 层做认证
func (rt *Router) RegisterWebSocketRoutes(r *gin.Engine) {
	r.GET("/wss", rt.handlers.Ws.Connect)
}
