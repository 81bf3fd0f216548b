// Package live 实现直播协调核心：在线注册表、房间注册表和事件中心
// protocol.go 定义事件信封和事件名
package live

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Envelope 客户端与服务端之间的事件信封
// Data 延迟解析，按 Event 选择具体载荷结构
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// 客户端上行事件
const (
	EventUserOnline  = "userOnline"
	EventSendMessage = "sendMessage"
	EventMessageRead = "messageRead"
	EventTyping      = "typing"
	EventCallUser    = "callUser"
	EventAcceptCall  = "acceptCall"
	EventRejectCall  = "rejectCall"
	EventEndCall     = "endCall"
	EventJoinLive    = "joinLive"
	EventLeaveLive   = "leaveLive"
	EventSendComment = "sendComment"
	EventSendGift    = "sendGift"
	EventSeatUpdate  = "seatUpdate"
	EventSeatRequest = "seatRequest"
	EventStartPK     = "startPK"
	EventAcceptPK    = "acceptPK"
	EventEndPK       = "endPK"
	EventUserBlock   = "userBlock"
	EventUserUnblock = "userUnblock"
)

// 服务端下行事件
const (
	EventUserStatusChanged = "userStatusChanged"
	EventReceiveMessage    = "receiveMessage"
	EventMessageSent       = "messageSent"
	EventIncomingCall      = "incomingCall"
	EventCallAccepted      = "callAccepted"
	EventCallRejected      = "callRejected"
	EventCallEnded         = "callEnded"
	EventCallFailed        = "callFailed"
	EventViewerJoined      = "viewerJoined"
	EventViewerLeft        = "viewerLeft"
	EventReceiveComment    = "receiveComment"
	EventReceiveGift       = "receiveGift"
	EventPkInvite          = "pkInvite"
	EventPkStarted         = "pkStarted"
	EventPkEnded           = "pkEnded"
	EventYouAreBlocked     = "youAreBlocked"
	EventError             = "error"
)

// MarshalEvent 把下行事件打包成信封帧
func MarshalEvent(event string, payload any) []byte {
	data, err := json.Marshal(payload)
	if err != nil {
		zap.L().Error("marshal event payload failed", zap.String("event", event), zap.Error(err))
		return nil
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		zap.L().Error("marshal event envelope failed", zap.String("event", event), zap.Error(err))
		return nil
	}
	return frame
}
