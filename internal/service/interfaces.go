// Package service 定义业务层接口
// Handler 层依赖这些接口，便于测试和解耦
package service

import (
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
)

// UserService 用户业务接口
type UserService interface {
	// Register 用户注册，成功后直接返回登录态
	Register(req request.RegisterRequest) (*respond.LoginRespond, error)
	// Login 密码登录
	Login(req request.LoginRequest) (*respond.LoginRespond, error)
	// RefreshToken 用 Refresh Token 换取新的令牌对
	RefreshToken(refreshToken string) (*respond.LoginRespond, error)
	// UpdateUserInfo 更新用户资料
	UpdateUserInfo(req request.UpdateUserInfoRequest) error
	// GetUserInfo 获取用户资料
	GetUserInfo(uuid string) (*respond.GetUserInfoRespond, error)
}

// LiveService 直播间生命周期业务接口
type LiveService interface {
	// StartLive 开播：签发房间 id 和 RTC token，登记房间会话
	StartLive(req request.StartLiveRequest) (*respond.StartLiveRespond, error)
	// StopLive 关播，幂等
	StopLive(req request.StopLiveRequest) error
	// GetLiveUsers 正在直播的用户列表
	GetLiveUsers() ([]respond.LiveUserRespond, error)
}

// MessageService 私信业务接口（REST 面）
type MessageService interface {
	// GetChatUsers 会话列表，支持 all/online/unread 过滤
	GetChatUsers(req request.GetChatUsersRequest) ([]respond.ChatUserRespond, error)
	// GetChatHistory 聊天记录分页，同时把该话题标记为已读
	GetChatHistory(topicUuid string, req request.GetChatHistoryRequest) ([]respond.ChatMessageRespond, error)
	// SendMessage REST 兜底发送，仅落库
	SendMessage(req request.SendMessageRequest) (*respond.SendMessageRespond, error)
}

// AgoraService RTC token 业务接口
type AgoraService interface {
	// BuildToken 生成 RTC token，凭证未配置时返回开发占位 token
	BuildToken(req request.AgoraTokenRequest) (*respond.AgoraTokenRespond, error)
}
