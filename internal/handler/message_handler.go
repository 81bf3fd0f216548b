// Package handler 提供 HTTP 请求处理器
// 本文件处理私信相关的 API 请求
package handler

import (
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/service"
	"muse_live_server/pkg/errorx"

	"github.com/gin-gonic/gin"
)

// MessageHandler 私信请求处理器
type MessageHandler struct {
	svc service.MessageService
}

// NewMessageHandler 创建私信处理器
func NewMessageHandler(svc service.MessageService) *MessageHandler {
	return &MessageHandler{svc: svc}
}

// GetChatUsers 会话列表
// GET /api/messages/users?ownerId=xxx&type=all|online|unread&start=0&limit=20
// ownerId 必须是令牌持有者本人
func (h *MessageHandler) GetChatUsers(c *gin.Context) {
	var req request.GetChatUsersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if userId, ok := c.Get("user_id"); ok && userId != req.OwnerId {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "无权查看他人会话"))
		return
	}
	rsp, err := h.svc.GetChatUsers(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// GetChatHistory 聊天记录
// GET /api/messages/chat/:chatTopicId?ownerId=xxx&start=0&limit=50
// 拉取的同时把该话题标记为已读
func (h *MessageHandler) GetChatHistory(c *gin.Context) {
	topicUuid := c.Param("chatTopicId")
	if topicUuid == "" {
		HandleError(c, errorx.ErrInvalidParam)
		return
	}
	var req request.GetChatHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if userId, ok := c.Get("user_id"); ok && userId != req.OwnerId {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "无权查看他人聊天记录"))
		return
	}
	rsp, err := h.svc.GetChatHistory(topicUuid, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}

// SendMessage REST 兜底发送
// POST /api/messages/send
// 只落库，不做实时推送；发送方必须是令牌持有者本人
func (h *MessageHandler) SendMessage(c *gin.Context) {
	var req request.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleParamError(c, err)
		return
	}
	if userId, ok := c.Get("user_id"); ok && userId != req.SenderId {
		HandleError(c, errorx.New(errorx.CodeUnauthorized, "无权以他人身份发送私信"))
		return
	}
	rsp, err := h.svc.SendMessage(req)
	if err != nil {
		HandleError(c, err)
		return
	}
	HandleSuccess(c, rsp)
}
