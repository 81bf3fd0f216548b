// hub.go 事件中心：聚合在线注册表、房间注册表和各类事件处理
// 所有上行事件经 Transmit 通道进入单一消费循环，房间和在线状态的写入都发生在这里
package live

import (
	"context"
	"encoding/json"
	"sync"

	"muse_live_server/internal/dao/mysql/repository"
	myredis "muse_live_server/internal/dao/redis"
	"muse_live_server/internal/dto/respond"
	"muse_live_server/pkg/constants"
	"muse_live_server/pkg/errorx"

	"go.uber.org/zap"
)

var ctx = context.Background()

// EventPipe 事件管道，kafka 模式下上行帧先过管道再回到消费循环
type EventPipe interface {
	WriteEvent(ctx context.Context, key, value []byte) error
}

// GiftLedger 礼物账本，划转在存储层的单个事务内完成
type GiftLedger interface {
	Transfer(senderId, receiverId, roomId string, giftCount, totalCoin int64) error
}

// inbound 一帧上行事件及其来源连接
// kafka 模式下消费端按发送者 uuid 反查连接，查不到时 client 为 nil
type inbound struct {
	client *Client
	frame  []byte
}

// Hub 直播事件中心
type Hub struct {
	Login    chan *Client
	Logout   chan *Client
	Transmit chan *inbound

	presence *Presence
	rooms    *RoomRegistry

	userRepo    repository.UserRepository
	topicRepo   repository.ChatTopicRepository
	messageRepo repository.MessageRepository
	liveRepo    repository.LiveRecordRepository
	giftLedger  GiftLedger
	cache       myredis.AsyncCacheService

	mode          string // "channel" 或 "kafka"
	pipe          EventPipe
	validateSeats bool
	audioSeatNum  int
	pkDuration    int // PK 时长（秒），随 pkStarted 下发，客户端据此倒计时

	closeOnce sync.Once
}

// HubConfig 事件中心依赖
type HubConfig struct {
	Presence      *Presence
	Rooms         *RoomRegistry
	UserRepo      repository.UserRepository
	TopicRepo     repository.ChatTopicRepository
	MessageRepo   repository.MessageRepository
	LiveRepo      repository.LiveRecordRepository
	GiftLedger    GiftLedger
	Cache         myredis.AsyncCacheService
	Mode          string
	Pipe          EventPipe
	ValidateSeats bool
	AudioSeatNum  int
	PkDuration    int
}

// NewHub 创建事件中心
func NewHub(cfg HubConfig) *Hub {
	h := &Hub{
		Login:         make(chan *Client, constants.CHANNEL_SIZE),
		Logout:        make(chan *Client, constants.CHANNEL_SIZE),
		Transmit:      make(chan *inbound, constants.CHANNEL_SIZE),
		presence:      cfg.Presence,
		rooms:         cfg.Rooms,
		userRepo:      cfg.UserRepo,
		topicRepo:     cfg.TopicRepo,
		messageRepo:   cfg.MessageRepo,
		liveRepo:      cfg.LiveRepo,
		giftLedger:    cfg.GiftLedger,
		cache:         cfg.Cache,
		mode:          cfg.Mode,
		pipe:          cfg.Pipe,
		validateSeats: cfg.ValidateSeats,
		audioSeatNum:  cfg.AudioSeatNum,
		pkDuration:    cfg.PkDuration,
	}
	if h.presence == nil {
		h.presence = NewPresence()
	}
	if h.rooms == nil {
		h.rooms = NewRoomRegistry()
	}
	if h.audioSeatNum <= 0 {
		h.audioSeatNum = constants.DEFAULT_AUDIO_SEAT_NUM
	}
	return h
}

// Presence 在线注册表
func (h *Hub) Presence() *Presence { return h.presence }

// Rooms 房间注册表
func (h *Hub) Rooms() *RoomRegistry { return h.rooms }

// Start 启动消费循环，阻塞运行
func (h *Hub) Start() {
	for {
		select {
		case client, ok := <-h.Login:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			zap.L().Debug("ws client connected", zap.String("conn", client.Uuid))

		case client, ok := <-h.Logout:
			if !ok {
				return
			}
			if client == nil {
				continue
			}
			h.handleDisconnect(client)

		case in, ok := <-h.Transmit:
			if !ok {
				return
			}
			h.Dispatch(in.client, in.frame)
		}
	}
}

// Close 关闭事件中心通道
func (h *Hub) Close() {
	h.closeOnce.Do(func() {
		close(h.Login)
		close(h.Logout)
		close(h.Transmit)
	})
}

// SendClientToLogin 新连接进入事件中心
func (h *Hub) SendClientToLogin(client *Client) {
	h.Login <- client
}

// SendClientToLogout 连接断开，进入清理流程
func (h *Hub) SendClientToLogout(client *Client) {
	defer func() {
		// Close 之后 Read 协程仍可能投递，吞掉对已关闭通道的写入
		if r := recover(); r != nil {
			zap.L().Debug("logout after hub closed", zap.String("conn", client.Uuid))
		}
	}()
	h.Logout <- client
}

// Publish 上行帧入口
// channel 模式直接进 Transmit，kafka 模式先写入事件管道
// userOnline 始终本地处理，它要在本节点绑定连接和用户
func (h *Hub) Publish(client *Client, frame []byte) {
	if h.mode == "kafka" && h.pipe != nil && !isUserOnlineFrame(frame) {
		key := []byte(client.UserId)
		if len(key) == 0 {
			key = []byte(client.Uuid)
		}
		if err := h.pipe.WriteEvent(ctx, key, frame); err != nil {
			zap.L().Error("publish event to pipe failed", zap.Error(err))
			h.replyError(client, "事件发送失败，请稍后重试", err)
		}
		return
	}

	select {
	case h.Transmit <- &inbound{client: client, frame: frame}:
	default:
		zap.L().Warn("hub transmit channel full, rejecting frame", zap.String("conn", client.Uuid))
		h.replyError(client, "当前事件过多，发送失败，请稍后重试", errorx.ErrServerBusy)
	}
}

// Ingest kafka 消费端回注事件
// 发送者可能连接在别的节点上，反查不到时以 nil 连接处理，回执类事件会被跳过
func (h *Hub) Ingest(senderUuid string, frame []byte) {
	client := h.presence.Lookup(senderUuid)
	select {
	case h.Transmit <- &inbound{client: client, frame: frame}:
	default:
		zap.L().Warn("hub transmit channel full, dropping piped frame", zap.String("sender", senderUuid))
	}
}

// Dispatch 解析信封并分发到事件处理函数
func (h *Hub) Dispatch(client *Client, frame []byte) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		zap.L().Warn("malformed event frame", zap.Error(err))
		h.replyError(client, "事件格式错误", err)
		return
	}

	switch env.Event {
	case EventUserOnline:
		h.handleUserOnline(client, env.Data)
	case EventSendMessage:
		h.handleSendMessage(client, env.Data)
	case EventMessageRead:
		h.handleMessageRead(client, env.Data)
	case EventTyping:
		h.handleTyping(client, env.Data)
	case EventCallUser:
		h.handleCallUser(client, env.Data)
	case EventAcceptCall:
		h.handleAcceptCall(client, env.Data)
	case EventRejectCall:
		h.handleRejectCall(client, env.Data)
	case EventEndCall:
		h.handleEndCall(client, env.Data)
	case EventJoinLive:
		h.handleJoinLive(client, env.Data)
	case EventLeaveLive:
		h.handleLeaveLive(client, env.Data)
	case EventSendComment:
		h.handleSendComment(client, env.Data)
	case EventSendGift:
		h.handleSendGift(client, env.Data)
	case EventSeatUpdate:
		h.handleSeatUpdate(client, env.Data)
	case EventSeatRequest:
		h.handleSeatRequest(client, env.Data)
	case EventStartPK:
		h.handleStartPK(client, env.Data)
	case EventAcceptPK:
		h.handleAcceptPK(client, env.Data)
	case EventEndPK:
		h.handleEndPK(client, env.Data)
	case EventUserBlock:
		h.handleUserBlock(client, env.Data)
	case EventUserUnblock:
		h.handleUserUnblock(client, env.Data)
	default:
		zap.L().Warn("unknown event", zap.String("event", env.Event))
		h.replyError(client, "未知事件: "+env.Event, nil)
	}
}

// handleDisconnect 连接断开清理
// 成员关系和在线条目移除，但不广播 viewerLeft，观众列表由下一次 join/leave 校正
func (h *Hub) handleDisconnect(client *Client) {
	released := h.presence.Release(client)
	h.rooms.RemoveClient(client)

	if released {
		userId := client.UserId
		h.async(func() {
			if err := h.userRepo.SetOnlineStatus(userId, 0); err != nil {
				zap.L().Error("持久化离线状态失败", zap.String("user", userId), zap.Error(err))
			}
		})
		h.broadcastAll(MarshalEvent(EventUserStatusChanged, respond.UserStatusChangedRespond{
			UserId:   userId,
			IsOnline: false,
		}))
	}

	close(client.SendBack)
	if client.Conn != nil {
		if err := client.Conn.Close(); err != nil {
			zap.L().Debug("close ws conn", zap.Error(err))
		}
	}
	zap.L().Info("ws client disconnected", zap.String("conn", client.Uuid), zap.String("user", client.UserId))
}

// replyError 给发送方回一个 error 事件，连接不可达时仅记日志
func (h *Hub) replyError(client *Client, msg string, err error) {
	detail := ""
	if err != nil {
		detail = err.Error()
	}
	if client == nil {
		zap.L().Warn("cannot reply error, sender unreachable", zap.String("msg", msg), zap.String("detail", detail))
		return
	}
	client.Deliver(MarshalEvent(EventError, respond.ErrorRespond{Message: msg, Error: detail}))
}

// broadcastAll 向所有已登记在线的连接投递一帧
func (h *Hub) broadcastAll(frame []byte) {
	if frame == nil {
		return
	}
	h.presence.Range(func(_ string, c *Client) bool {
		c.Deliver(frame)
		return true
	})
}

// async 提交落库任务
// 有缓存服务时走异步 Worker（存储允许滞后），测试场景下同步执行
func (h *Hub) async(task func()) {
	if h.cache != nil {
		h.cache.SubmitTask(task)
		return
	}
	task()
}

// isUserOnlineFrame 粗检帧是否为 userOnline 事件
func isUserOnlineFrame(frame []byte) bool {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return false
	}
	return env.Event == EventUserOnline
}

// canonicalRoomId 判断房间 id 是否为本服务签发的持久化房间
// 语音房等客户端合成 id 不落库
func canonicalRoomId(roomId string) bool {
	return len(roomId) > len(constants.LIVE_ROOM_PREFIX) &&
		roomId[:len(constants.LIVE_ROOM_PREFIX)] == constants.LIVE_ROOM_PREFIX
}
