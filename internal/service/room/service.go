// Package room 提供直播间生命周期的 REST 业务：开播、关播、直播列表
package room

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"muse_live_server/internal/config"
	"muse_live_server/internal/dao/mysql/repository"
	myredis "muse_live_server/internal/dao/redis"
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
	"muse_live_server/internal/model"
	"muse_live_server/internal/service/live"
	"muse_live_server/pkg/constants"

	"go.uber.org/zap"
)

// liveUserListKey 直播列表缓存键
const liveUserListKey = "live_user_list"

// TokenBuilder 开播时签发 RTC token
type TokenBuilder interface {
	BuildToken(req request.AgoraTokenRequest) (*respond.AgoraTokenRespond, error)
}

// Service 直播间生命周期服务
type Service struct {
	userRepo repository.UserRepository
	liveRepo repository.LiveRecordRepository
	rooms    *live.RoomRegistry
	tokens   TokenBuilder
	cache    myredis.CacheService
}

// NewLiveService 创建直播间生命周期服务
func NewLiveService(
	userRepo repository.UserRepository,
	liveRepo repository.LiveRecordRepository,
	rooms *live.RoomRegistry,
	tokens TokenBuilder,
	cache myredis.CacheService,
) *Service {
	return &Service{
		userRepo: userRepo,
		liveRepo: liveRepo,
		rooms:    rooms,
		tokens:   tokens,
		cache:    cache,
	}
}

// StartLive 开播
// 房间 id 格式 live_<host uuid>_<毫秒时间戳>；重复开播会签发新房间
func (s *Service) StartLive(req request.StartLiveRequest) (*respond.StartLiveRespond, error) {
	user, err := s.userRepo.FindByUuid(req.OwnerId)
	if err != nil {
		return nil, err
	}

	roomId := fmt.Sprintf("%s%s_%d", constants.LIVE_ROOM_PREFIX, user.Uuid, time.Now().UnixMilli())

	liveType := req.LiveType
	if liveType != model.LiveTypeAudio {
		liveType = model.LiveTypeVideo
	}
	roomName := req.RoomName
	if roomName == "" {
		roomName = user.Nickname + "'s Live"
	}
	roomWelcome := req.RoomWelcome
	if roomWelcome == "" {
		roomWelcome = "Welcome to join the live."
	}
	channel := req.Channel
	if channel == "" {
		channel = roomId
	}

	// token 签发失败不阻断开播，客户端可再调 /agora/token 重试
	var token string
	if s.tokens != nil {
		if rsp, err := s.tokens.BuildToken(request.AgoraTokenRequest{
			ChannelName: channel,
			Uid:         req.AgoraUid,
		}); err == nil {
			token = rsp.Token
		} else {
			zap.L().Error("签发 RTC token 失败", zap.String("room", roomId), zap.Error(err))
		}
	}

	now := time.Now()
	record := &model.LiveRecord{
		Uuid:        roomId,
		HostUuid:    user.Uuid,
		Channel:     channel,
		Token:       token,
		AgoraUid:    req.AgoraUid,
		LiveType:    liveType,
		RoomName:    roomName,
		RoomWelcome: roomWelcome,
		RoomImage:   req.RoomImage,
		IsPrivate:   boolToInt8(req.IsPrivate),
		PrivateCode: req.PrivateCode,
		IsActive:    1,
		StartedAt:   sql.NullTime{Time: now, Valid: true},
	}
	if err := s.liveRepo.Create(record); err != nil {
		return nil, err
	}

	session := &live.RoomSession{
		Id:          roomId,
		HostUuid:    user.Uuid,
		HostName:    user.Nickname,
		HostImage:   user.Avatar,
		Kind:        liveType,
		Channel:     channel,
		Token:       token,
		AgoraUid:    int(req.AgoraUid),
		RoomName:    roomName,
		RoomWelcome: roomWelcome,
		RoomImage:   req.RoomImage,
		IsPrivate:   req.IsPrivate,
		PrivateCode: req.PrivateCode,
		StartedAt:   now,
	}
	s.rooms.Create(session)
	if liveType == model.LiveTypeAudio {
		seatNum := config.GetConfig().LiveConfig.AudioSeatNum
		if seatNum <= 0 {
			seatNum = constants.DEFAULT_AUDIO_SEAT_NUM
		}
		s.rooms.EnsureSeats(roomId, seatNum)
	}

	if err := s.userRepo.SetLiveStatus(user.Uuid, 1, roomId); err != nil {
		zap.L().Error("更新用户直播标志失败", zap.String("user", user.Uuid), zap.Error(err))
	}

	s.invalidateListCache()

	return &respond.StartLiveRespond{
		RoomId:      roomId,
		HostUuid:    user.Uuid,
		HostName:    user.Nickname,
		HostImage:   user.Avatar,
		Channel:     channel,
		AgoraUid:    req.AgoraUid,
		Token:       token,
		LiveType:    liveType,
		RoomName:    roomName,
		RoomWelcome: roomWelcome,
		RoomImage:   req.RoomImage,
		IsPrivate:   req.IsPrivate,
		StartedAt:   now,
	}, nil
}

// StopLive 关播，幂等：重复调用和对未开播用户调用都不报错
func (s *Service) StopLive(req request.StopLiveRequest) error {
	user, err := s.userRepo.FindByUuid(req.OwnerId)
	if err != nil {
		return err
	}

	roomId := req.RoomId
	if roomId == "" {
		roomId = user.LiveRoomId
	}
	if roomId != "" {
		s.rooms.Remove(roomId)
		if err := s.liveRepo.End(roomId); err != nil {
			zap.L().Error("结束直播场次失败", zap.String("room", roomId), zap.Error(err))
		}
	}

	if err := s.userRepo.SetLiveStatus(user.Uuid, 0, ""); err != nil {
		return err
	}

	s.invalidateListCache()
	return nil
}

// GetLiveUsers 正在直播的用户列表
// 以数据库 is_live 标志为准，注册表会话补充实时信息；
// 标志为真但注册表无会话时合成安全默认值，不让列表报错
func (s *Service) GetLiveUsers() ([]respond.LiveUserRespond, error) {
	if cached := s.loadListCache(); cached != nil {
		return cached, nil
	}

	hosts, err := s.userRepo.FindLiveHosts()
	if err != nil {
		return nil, err
	}

	list := make([]respond.LiveUserRespond, 0, len(hosts))
	for i := range hosts {
		host := &hosts[i]
		item := respond.LiveUserRespond{
			Uuid:     host.Uuid,
			Nickname: host.Nickname,
			Username: host.Username,
			Avatar:   host.Avatar,
			RoomId:   host.LiveRoomId,
			LiveType: model.LiveTypeVideo,
			RoomName: host.Nickname + "'s Live",
		}
		if session := s.rooms.Get(host.LiveRoomId); session != nil {
			item.Channel = session.Channel
			item.Token = session.Token
			item.AgoraUid = int64(session.AgoraUid)
			item.LiveType = session.Kind
			item.RoomName = session.RoomName
			item.RoomImage = session.RoomImage
			item.IsPrivate = session.IsPrivate
			item.ViewerCount = s.rooms.ViewerCount(session.Id)
			item.IsPkMode = s.rooms.PkState(session.Id) == live.PkActive
		}
		list = append(list, item)
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].ViewerCount > list[j].ViewerCount
	})

	s.storeListCache(list)
	return list, nil
}

// loadListCache 直播列表缓存命中则直接返回
func (s *Service) loadListCache() []respond.LiveUserRespond {
	if s.cache == nil {
		return nil
	}
	raw, err := s.cache.Get(context.Background(), liveUserListKey)
	if err != nil || raw == "" {
		return nil
	}
	var list []respond.LiveUserRespond
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		zap.L().Warn("直播列表缓存解析失败", zap.Error(err))
		return nil
	}
	return list
}

// storeListCache 写直播列表缓存，短 TTL 容忍观众数滞后
func (s *Service) storeListCache(list []respond.LiveUserRespond) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(list)
	if err != nil {
		return
	}
	if err := s.cache.Set(context.Background(), liveUserListKey, string(raw), time.Minute*constants.REDIS_TIMEOUT); err != nil {
		zap.L().Warn("写直播列表缓存失败", zap.Error(err))
	}
}

// invalidateListCache 开播/关播后失效列表缓存
func (s *Service) invalidateListCache() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(context.Background(), liveUserListKey); err != nil {
		zap.L().Warn("失效直播列表缓存失败", zap.Error(err))
	}
}

func boolToInt8(b bool) int8 {
	if b {
		return 1
	}
	return 0
}
