// seat_events.go 语音房麦位事件
// 麦位布局由客户端维护，服务端默认只做透传；
// live.validateSeats 开启后增加注册表校验（越界、重复占位）
package live

import (
	"encoding/json"

	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"

	"go.uber.org/zap"
)

// handleSeatUpdate 麦位更新
// 载荷原样广播回房间，和客户端约定的字段保持逐字一致
func (h *Hub) handleSeatUpdate(client *Client, data json.RawMessage) {
	var ev request.SeatUpdateEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "seatUpdate 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "seatUpdate 参数非法", err)
		return
	}

	if h.validateSeats {
		h.rooms.EnsureSeats(ev.RoomId, h.audioSeatNum)
		slot := SeatSlot{
			Position: ev.Position,
			UserId:   ev.UserId,
			Name:     ev.Name,
			AgoraUid: ev.AgoraUid,
			Image:    ev.Image,
			Lock:     ev.Lock,
			Mute:     ev.Mute,
			Speaking: ev.Speaking,
		}
		if err := h.rooms.ApplySeatUpdate(ev.RoomId, slot); err != nil {
			h.replyError(client, "seatUpdate 被拒绝", err)
			return
		}
	}

	frame, err := json.Marshal(Envelope{Event: EventSeatUpdate, Data: data})
	if err != nil {
		h.replyError(client, "seatUpdate 转发失败", err)
		return
	}
	h.rooms.Broadcast(ev.RoomId, frame)
}

// handleSeatRequest 申请上麦
// 申请集合去重，重复申请不再广播
func (h *Hub) handleSeatRequest(client *Client, data json.RawMessage) {
	var ev request.SeatRequestEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "seatRequest 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "seatRequest 参数非法", err)
		return
	}

	if !h.rooms.AddSeatRequest(ev.RoomId, ev.UserId) {
		return
	}

	if canonicalRoomId(ev.RoomId) {
		roomId, userId := ev.RoomId, ev.UserId
		h.async(func() {
			if err := h.liveRepo.AddRequestedUser(roomId, userId); err != nil {
				zap.L().Error("持久化上麦申请集合失败", zap.String("room", roomId), zap.Error(err))
			}
		})
	}

	h.rooms.Broadcast(ev.RoomId, MarshalEvent(EventSeatRequest, respond.SeatRequestRespond{
		UserId: ev.UserId,
		RoomId: ev.RoomId,
	}))
}
