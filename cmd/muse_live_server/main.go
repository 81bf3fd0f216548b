package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"muse_live_server/internal/config"
	dao "muse_live_server/internal/dao/mysql"
	myredis "muse_live_server/internal/dao/redis"
	"muse_live_server/internal/handler"
	"muse_live_server/internal/https_server"
	"muse_live_server/internal/infrastructure/logger"
	"muse_live_server/internal/infrastructure/mq"
	"muse_live_server/internal/service"
	"muse_live_server/internal/service/live"
	"muse_live_server/pkg/util/jwt"
	"muse_live_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

func main() {
	// 1. 加载配置
	conf := config.GetConfig()

	// 2. 初始化日志
	if err := logger.Init(&conf.LogConfig, "dev"); err != nil {
		log.Fatalf("init logger failed: %v", err)
	}
	zap.L().Info("日志初始化成功")

	// 3. 初始化数据库
	repos := dao.Init()
	zap.L().Info("数据库初始化成功")

	// 4. 初始化 Redis
	myredis.Init()
	zap.L().Info("Redis 初始化成功")

	// 5. 初始化 JWT 和雪花节点
	jwt.Init(conf.JWTConfig.Secret, conf.JWTConfig.AccessTokenExpiry, conf.JWTConfig.RefreshTokenExpiry)
	snowflake.Init()

	// 6. 初始化校验错误翻译器
	if err := handler.InitTrans("zh"); err != nil {
		zap.L().Fatal("翻译器初始化失败", zap.Error(err))
	}

	// 7. 组装事件中心
	// 在线注册表和房间注册表由事件中心和 REST 服务共享
	presence := live.NewPresence()
	rooms := live.NewRoomRegistry()
	cache := myredis.GetCacheService()

	hubConfig := live.HubConfig{
		Presence:      presence,
		Rooms:         rooms,
		UserRepo:      repos.User,
		TopicRepo:     repos.ChatTopic,
		MessageRepo:   repos.Message,
		LiveRepo:      repos.LiveRecord,
		GiftLedger:    dao.NewGiftLedger(repos),
		Cache:         cache,
		Mode:          conf.KafkaConfig.EventMode,
		ValidateSeats: conf.LiveConfig.ValidateSeats,
		AudioSeatNum:  conf.LiveConfig.AudioSeatNum,
		PkDuration:    conf.LiveConfig.PkDuration,
	}

	consumerCtx, cancelConsumer := context.WithCancel(context.Background())
	if conf.KafkaConfig.EventMode == "kafka" {
		mq.KafkaService.KafkaInit()
		mq.KafkaService.CreateTopic()
		hubConfig.Pipe = mq.KafkaService
	}

	hub := live.NewHub(hubConfig)
	go hub.Start()
	if conf.KafkaConfig.EventMode == "kafka" {
		go mq.KafkaService.RunConsumer(consumerCtx, hub.Ingest)
	}
	zap.L().Info("事件中心初始化成功", zap.String("mode", conf.KafkaConfig.EventMode))

	// 8. 初始化 Service 层和 Handler 层（依赖注入）
	service.InitServices(repos, rooms, cache)
	handlers := handler.NewHandlers(service.Svc, hub)

	// 9. 初始化 HTTP 服务器并启动
	engine := https_server.Init(handlers)
	go func() {
		addr := fmt.Sprintf("%s:%d", conf.MainConfig.Host, conf.MainConfig.Port)
		if err := engine.Run(addr); err != nil {
			zap.L().Fatal("server running fault", zap.Error(err))
		}
	}()
	zap.L().Info("服务启动成功",
		zap.String("host", conf.MainConfig.Host),
		zap.Int("port", conf.MainConfig.Port))

	// 等待退出信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zap.L().Info("关闭服务器...")
	cancelConsumer()
	if conf.KafkaConfig.EventMode == "kafka" {
		mq.KafkaService.KafkaClose()
	}
	hub.Close()
	zap.L().Info("服务器已关闭")
}
