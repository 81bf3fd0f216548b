// Package service 提供业务逻辑层
// 本文件实现 Service 层的依赖注入和聚合
package service

import (
	"muse_live_server/internal/config"
	"muse_live_server/internal/dao/mysql"
	myredis "muse_live_server/internal/dao/redis"
	"muse_live_server/internal/service/agora"
	"muse_live_server/internal/service/live"
	"muse_live_server/internal/service/message"
	"muse_live_server/internal/service/room"
	"muse_live_server/internal/service/user"
)

// Services 聚合所有 Service 实例
// 作为依赖注入的入口，Handler 层通过 service.Svc 访问各个 Service
type Services struct {
	User    UserService    // 账号 Service
	Live    LiveService    // 直播间生命周期 Service
	Message MessageService // 私信 Service
	Agora   AgoraService   // RTC token Service
}

// NewServices 创建并注入所有 Service 实例
// repos: Repository 层聚合实例
// rooms: 房间注册表，和事件中心共享同一实例
// cache: 缓存服务
func NewServices(repos *mysql.Repositories, rooms *live.RoomRegistry, cache myredis.AsyncCacheService) *Services {
	agoraSvc := agora.NewAgoraService(config.GetConfig().AgoraConfig)
	userSvc := user.NewUserService(repos.User, cache)
	liveSvc := room.NewLiveService(repos.User, repos.LiveRecord, rooms, agoraSvc, cache)
	messageSvc := message.NewMessageService(repos.User, repos.ChatTopic, repos.Message)

	return &Services{
		User:    userSvc,
		Live:    liveSvc,
		Message: messageSvc,
		Agora:   agoraSvc,
	}
}

// Svc 全局 Services 实例
// Handler 层通过 service.Svc.Live.StartLive() 等方式调用
var Svc *Services

// InitServices 初始化全局 Services 实例
// 应在 main.go 中调用，在 Repository 和注册表初始化之后
func InitServices(repos *mysql.Repositories, rooms *live.RoomRegistry, cache myredis.AsyncCacheService) {
	Svc = NewServices(repos, rooms, cache)
}
