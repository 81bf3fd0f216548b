// call_events.go 一对一呼叫信令：无状态转发，呼叫状态由客户端维护
package live

import (
	"encoding/json"

	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
)

// handleCallUser 向被叫送达来电通知，被叫不在线时告知主叫
func (h *Hub) handleCallUser(client *Client, data json.RawMessage) {
	var ev request.CallUserEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "callUser 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "callUser 参数非法", err)
		return
	}

	receiver := h.presence.Lookup(ev.ReceiverId)
	if receiver == nil {
		if client != nil {
			client.Deliver(MarshalEvent(EventCallFailed, respond.CallFailedRespond{
				Message: "User is offline",
			}))
		}
		return
	}
	receiver.Deliver(MarshalEvent(EventIncomingCall, respond.IncomingCallRespond{
		CallId:      ev.CallId,
		CallerId:    ev.CallerId,
		CallerName:  ev.CallerName,
		CallerImage: ev.CallerImage,
		Channel:     ev.Channel,
		Token:       ev.Token,
	}))
}

// handleAcceptCall 接听结果转发给主叫
func (h *Hub) handleAcceptCall(client *Client, data json.RawMessage) {
	var ev request.AcceptCallEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "acceptCall 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "acceptCall 参数非法", err)
		return
	}

	if caller := h.presence.Lookup(ev.CallerId); caller != nil {
		caller.Deliver(MarshalEvent(EventCallAccepted, respond.CallAcceptedRespond{
			CallId:     ev.CallId,
			ReceiverId: ev.ReceiverId,
			IsAccept:   ev.IsAccept,
		}))
	}
}

// handleRejectCall 拒绝转发给主叫
func (h *Hub) handleRejectCall(client *Client, data json.RawMessage) {
	var ev request.RejectCallEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "rejectCall 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "rejectCall 参数非法", err)
		return
	}

	if caller := h.presence.Lookup(ev.CallerId); caller != nil {
		caller.Deliver(MarshalEvent(EventCallRejected, respond.CallRejectedRespond{
			CallId:     ev.CallId,
			ReceiverId: ev.ReceiverId,
		}))
	}
}

// handleEndCall 挂断转发给对端
func (h *Hub) handleEndCall(client *Client, data json.RawMessage) {
	var ev request.EndCallEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "endCall 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "endCall 参数非法", err)
		return
	}

	if other := h.presence.Lookup(ev.OtherUserId); other != nil {
		other.Deliver(MarshalEvent(EventCallEnded, respond.CallEndedRespond{
			CallId: ev.CallId,
			UserId: ev.UserId,
		}))
	}
}
