// room_events.go 直播间事件：进出房、弹幕、礼物、拉黑
package live

import (
	"encoding/json"
	"time"

	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"

	"go.uber.org/zap"
)

// handleJoinLive 加入直播间
// 注册表先更新成员关系，再向房间广播 viewerJoined（加入者也能收到）
func (h *Hub) handleJoinLive(client *Client, data json.RawMessage) {
	var ev request.JoinLiveEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "joinLive 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "joinLive 参数非法", err)
		return
	}
	if client == nil {
		zap.L().Warn("joinLive without local connection", zap.String("user", ev.UserId))
		return
	}

	h.rooms.Join(ev.RoomId, client)

	// 语音房等客户端合成 id 不落库
	if canonicalRoomId(ev.RoomId) {
		roomId, userId := ev.RoomId, ev.UserId
		h.async(func() {
			if err := h.liveRepo.AddView(roomId, 1); err != nil {
				zap.L().Error("持久化观看计数失败", zap.String("room", roomId), zap.Error(err))
			}
			if err := h.liveRepo.AddViewerUser(roomId, userId); err != nil {
				zap.L().Error("持久化观众集合失败", zap.String("room", roomId), zap.Error(err))
			}
		})
	}

	h.rooms.Broadcast(ev.RoomId, MarshalEvent(EventViewerJoined, respond.ViewerJoinedRespond{
		UserId: ev.UserId,
		RoomId: ev.RoomId,
	}))
}

// handleLeaveLive 离开直播间
// 先移出成员再广播，离开者自己收不到 viewerLeft
func (h *Hub) handleLeaveLive(client *Client, data json.RawMessage) {
	var ev request.LeaveLiveEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "leaveLive 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "leaveLive 参数非法", err)
		return
	}
	if client == nil {
		zap.L().Warn("leaveLive without local connection", zap.String("user", ev.UserId))
		return
	}

	h.rooms.Leave(ev.RoomId, client)

	if canonicalRoomId(ev.RoomId) {
		roomId := ev.RoomId
		h.async(func() {
			if err := h.liveRepo.AddView(roomId, -1); err != nil {
				zap.L().Error("持久化观看计数失败", zap.String("room", roomId), zap.Error(err))
			}
		})
	}

	h.rooms.Broadcast(ev.RoomId, MarshalEvent(EventViewerLeft, respond.ViewerLeftRespond{
		UserId: ev.UserId,
		RoomId: ev.RoomId,
	}))
}

// handleSendComment 弹幕广播给房间全部成员（含发送者）
func (h *Hub) handleSendComment(client *Client, data json.RawMessage) {
	var ev request.SendCommentEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "sendComment 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "sendComment 参数非法", err)
		return
	}

	h.rooms.Broadcast(ev.RoomId, MarshalEvent(EventReceiveComment, respond.ReceiveCommentRespond{
		CommentText: ev.CommentText,
		UserId:      ev.UserId,
		SenderName:  ev.SenderName,
		SenderImage: ev.SenderImage,
		Date:        time.Now(),
	}))
}

// handleSendGift 直播间送礼
// 双方余额和房间计数在存储层单个事务内划转；广播不依赖划转结果，
// 划转失败只记日志，礼物动画照常送达
func (h *Hub) handleSendGift(client *Client, data json.RawMessage) {
	var ev request.SendGiftEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "sendGift 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "sendGift 参数非法", err)
		return
	}

	count := ev.Count()
	if ev.SenderUserId != "" && ev.ReceiverUserId != "" && ev.GiftCoin > 0 {
		totalCoin := ev.GiftCoin * count
		if h.giftLedger != nil {
			if err := h.giftLedger.Transfer(ev.SenderUserId, ev.ReceiverUserId, ev.RoomId, count, totalCoin); err != nil {
				zap.L().Error("礼物划转失败",
					zap.String("sender", ev.SenderUserId),
					zap.String("receiver", ev.ReceiverUserId),
					zap.String("room", ev.RoomId),
					zap.Int64("totalCoin", totalCoin),
					zap.Error(err))
			}
		}
		h.rooms.AddGiftCounters(ev.RoomId, count, totalCoin)
	}

	h.rooms.Broadcast(ev.RoomId, MarshalEvent(EventReceiveGift, respond.ReceiveGiftRespond{
		GiftId:       ev.GiftId,
		GiftCount:    count,
		GiftUrl:      ev.GiftUrl,
		GiftType:     ev.GiftType,
		GiftName:     ev.GiftName,
		GiftCoin:     ev.GiftCoin,
		SenderName:   ev.SenderName,
		SenderImage:  ev.SenderImage,
		SenderUserId: ev.SenderUserId,
		Date:         time.Now(),
	}))
}

// handleUserBlock 直播间拉黑，被拉黑用户在线时收到通知
// 会话内名单立即生效，规范房间 id 同时尽力而为地写入场次记录
func (h *Hub) handleUserBlock(client *Client, data json.RawMessage) {
	var ev request.UserBlockEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "userBlock 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "userBlock 参数非法", err)
		return
	}

	h.rooms.Block(ev.RoomId, ev.BlockedUserId)

	if canonicalRoomId(ev.RoomId) {
		roomId, userId := ev.RoomId, ev.BlockedUserId
		h.async(func() {
			if err := h.liveRepo.AddBlockedUser(roomId, userId); err != nil {
				zap.L().Error("持久化拉黑集合失败", zap.String("room", roomId), zap.Error(err))
			}
		})
	}

	if blocked := h.presence.Lookup(ev.BlockedUserId); blocked != nil {
		blocked.Deliver(MarshalEvent(EventYouAreBlocked, respond.YouAreBlockedRespond{
			RoomId: ev.RoomId,
		}))
	}
}

// handleUserUnblock 解除拉黑，静默执行
func (h *Hub) handleUserUnblock(client *Client, data json.RawMessage) {
	var ev request.UserUnblockEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "userUnblock 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "userUnblock 参数非法", err)
		return
	}

	h.rooms.Unblock(ev.RoomId, ev.UnblockedUserId)

	if canonicalRoomId(ev.RoomId) {
		roomId, userId := ev.RoomId, ev.UnblockedUserId
		h.async(func() {
			if err := h.liveRepo.RemoveBlockedUser(roomId, userId); err != nil {
				zap.L().Error("持久化拉黑集合失败", zap.String("room", roomId), zap.Error(err))
			}
		})
	}
}
