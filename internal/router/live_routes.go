// Package router 提供 HTTP 路由注册
// 本文件定义直播间相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterLiveRoutes 注册直播间相关路由（需要认证）
func (rt *Router) RegisterLiveRoutes(rg *gin.RouterGroup) {
	liveGroup := rg.Group("/live")
	{
		liveGroup.POST("/start", rt.handlers.Live.StartLive)   // 开播
		liveGroup.POST("/stop", rt.handlers.Live.StopLive)     // 关播
		liveGroup.GET("/users", rt.handlers.Live.GetLiveUsers) // 直播列表
	}
}
