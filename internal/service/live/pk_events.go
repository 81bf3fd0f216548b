// pk_events.go PK 对战事件：邀请、接受、结束
package live

import (
	"encoding/json"

	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
	"muse_live_server/pkg/errorx"

	"go.uber.org/zap"
)

// handleStartPK 主播 A 向主播 B 发出 PK 邀请
// B 不在线时给发起方回 error 事件，而不是静默丢弃
func (h *Hub) handleStartPK(client *Client, data json.RawMessage) {
	var ev request.StartPKEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "startPK 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "startPK 参数非法", err)
		return
	}

	host2 := h.presence.Lookup(ev.Host2Id)
	if host2 == nil {
		h.replyError(client, "对方主播不在线，无法发起 PK", errorx.ErrPeerOffline)
		return
	}

	h.rooms.MarkPkInvited(ev.RoomId, ev.Host2Id, ev.Host2Channel)

	host2.Deliver(MarshalEvent(EventPkInvite, respond.PkInviteRespond{
		Host1Id:      ev.Host1Id,
		Host1Channel: ev.Host1Channel,
		RoomId:       ev.RoomId,
	}))
}

// handleAcceptPK 主播 B 接受邀请，PK 开始并广播给 A 的直播间
func (h *Hub) handleAcceptPK(client *Client, data json.RawMessage) {
	var ev request.AcceptPKEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "acceptPK 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "acceptPK 参数非法", err)
		return
	}

	h.rooms.MarkPkActive(ev.RoomId, ev.Host2Id, ev.Host2Channel)

	if canonicalRoomId(ev.RoomId) {
		roomId := ev.RoomId
		h.async(func() {
			if err := h.liveRepo.SetPkMode(roomId, 1); err != nil {
				zap.L().Error("持久化 PK 状态失败", zap.String("room", roomId), zap.Error(err))
			}
		})
	}

	h.rooms.Broadcast(ev.RoomId, MarshalEvent(EventPkStarted, respond.PkStartedRespond{
		Host2Id:      ev.Host2Id,
		Host2Channel: ev.Host2Channel,
		Host2Token:   ev.Host2Token,
		Duration:     h.pkDuration,
	}))
}

// handleEndPK 结束 PK
// 未处于 PK 状态时是安全的空操作，但 pkEnded 仍然广播，客户端据此复位界面
func (h *Hub) handleEndPK(client *Client, data json.RawMessage) {
	var ev request.EndPKEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "endPK 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "endPK 参数非法", err)
		return
	}

	h.rooms.ClearPk(ev.RoomId)

	if canonicalRoomId(ev.RoomId) {
		roomId := ev.RoomId
		h.async(func() {
			if err := h.liveRepo.SetPkMode(roomId, 0); err != nil {
				zap.L().Error("持久化 PK 状态失败", zap.String("room", roomId), zap.Error(err))
			}
		})
	}

	h.rooms.Broadcast(ev.RoomId, MarshalEvent(EventPkEnded, respond.PkEndedRespond{
		PkEndUserId: ev.PkEndUserId,
	}))
}
