// Package router 提供 HTTP 路由注册
// 本文件是路由注册的入口，聚合所有子模块的路由
package router

import (
	"muse_live_server/internal/handler"
	"muse_live_server/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

// Router 路由管理器，持有 Handler 聚合
type Router struct {
	handlers *handler.Handlers
}

// NewRouter 创建路由管理器
func NewRouter(handlers *handler.Handlers) *Router {
	return &Router{handlers: handlers}
}

// RegisterRoutes 注册所有路由
// 注册/登录/刷新开放访问，其余接口走 JWT 认证
func (rt *Router) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")

	rt.RegisterAuthRoutes(api)

	protected := api.Group("")
	protected.Use(middleware.JWTAuth())
	{
		rt.RegisterLiveRoutes(protected)
		rt.RegisterMessageRoutes(protected)
		rt.RegisterAgoraRoutes(protected)
	}

	rt.RegisterWebSocketRoutes(r)
}
