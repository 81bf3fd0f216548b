// Package handler 提供 HTTP 请求处理器
// 本文件定义 Handler 聚合结构和构造函数
package handler

import (
	"muse_live_server/internal/service"
	"muse_live_server/internal/service/live"
)

// Handlers 聚合所有 Handler 实例
// 作为依赖注入的入口，Router 层通过此结构访问各个 Handler
type Handlers struct {
	Auth    *AuthHandler
	Live    *LiveHandler
	Message *MessageHandler
	Agora   *AgoraHandler
	Ws      *WsHandler
}

// NewHandlers 创建并注入所有 Handler 实例
// svc: Service 层聚合实例
// hub: 直播事件中心，WebSocket 入口直接依赖
func NewHandlers(svc *service.Services, hub *live.Hub) *Handlers {
	return &Handlers{
		Auth:    NewAuthHandler(svc.User),
		Live:    NewLiveHandler(svc.Live),
		Message: NewMessageHandler(svc.Message),
		Agora:   NewAgoraHandler(svc.Agora),
		Ws:      NewWsHandler(hub),
	}
}
