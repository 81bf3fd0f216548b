// Package router 提供 HTTP 路由注册
// 本文件定义账号相关的路由
package router

import (
	"muse_live_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes 注册账号相关路由
// 注册/登录/刷新开放访问，资料接口需要认证
func (rt *Router) RegisterAuthRoutes(rg *gin.RouterGroup) {
	authGroup := rg.Group("/auth")
	{
		authGroup.POST("/register", rt.handlers.Auth.Register) // 注册
		authGroup.POST("/login", rt.handlers.Auth.Login)       // 密码登录
		authGroup.POST("/refresh", rt.handlers.Auth.RefreshToken)
	}

	userGroup := rg.Group("/auth")
	userGroup.Use(middleware.JWTAuth())
	{
		userGroup.GET("/user/:uuid", rt.handlers.Auth.GetUserInfo)      // 用户资料
		userGroup.POST("/user/update", rt.handlers.Auth.UpdateUserInfo) // 更新资料
	}
}
