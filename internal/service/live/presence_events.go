// presence_events.go 上线事件处理
package live

import (
	"encoding/json"

	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"

	"go.uber.org/zap"
)

// handleUserOnline 绑定连接与用户并登记在线
// 同一用户重复上线时新连接覆盖旧条目，旧连接保持打开但不再可达
func (h *Hub) handleUserOnline(client *Client, data json.RawMessage) {
	var ev request.UserOnlineEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "userOnline 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "userOnline 参数非法", err)
		return
	}
	if client == nil {
		zap.L().Warn("userOnline without local connection", zap.String("user", ev.UserId))
		return
	}

	client.UserId = ev.UserId
	if old := h.presence.Announce(ev.UserId, client); old != nil {
		zap.L().Info("用户重复上线，覆盖旧连接",
			zap.String("user", ev.UserId), zap.String("oldConn", old.Uuid), zap.String("newConn", client.Uuid))
	}

	userId := ev.UserId
	h.async(func() {
		if err := h.userRepo.SetOnlineStatus(userId, 1); err != nil {
			zap.L().Error("持久化在线状态失败", zap.String("user", userId), zap.Error(err))
		}
	})

	h.broadcastAll(MarshalEvent(EventUserStatusChanged, respond.UserStatusChangedRespond{
		UserId:   userId,
		IsOnline: true,
	}))
}
