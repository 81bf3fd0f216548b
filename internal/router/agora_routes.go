// Package router 提供 HTTP 路由注册
// 本文件定义 RTC token 相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterAgoraRoutes 注册 RTC token 路由（需要认证）
func (rt *Router) RegisterAgoraRoutes(rg *gin.RouterGroup) {
	agoraGroup := rg.Group("/agora")
	{
		agoraGroup.POST("/token", rt.handlers.Agora.BuildToken) // 生成 RTC token
	}
}
