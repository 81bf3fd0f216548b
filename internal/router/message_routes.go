// Package router 提供 HTTP 路由注册
// 本文件定义私信相关的路由
package router

import (
	"github.com/gin-gonic/gin"
)

// RegisterMessageRoutes 注册私信相关路由（需要认证）
func (rt *Router) RegisterMessageRoutes(rg *gin.RouterGroup) {
	messageGroup := rg.Group("/messages")
	{
		messageGroup.GET("/users", rt.handlers.Message.GetChatUsers)               // 会话列表
		messageGroup.GET("/chat/:chatTopicId", rt.handlers.Message.GetChatHistory) // 聊天记录
		messageGroup.POST("/send", rt.handlers.Message.SendMessage)                // 兜底发送
	}
}
