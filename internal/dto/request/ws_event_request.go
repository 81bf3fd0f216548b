// Package request 定义请求 DTO
// 本文件为 WebSocket 事件载荷，字段名与客户端协议保持一致
package request

import (
	"muse_live_server/pkg/errorx"
)

// UserOnlineEvent 用户上线
type UserOnlineEvent struct {
	UserId string `json:"userId"`
}

func (e *UserOnlineEvent) Validate() error {
	if e.UserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "userId 不能为空")
	}
	return nil
}

// SendMessageEvent 私信发送
type SendMessageEvent struct {
	SenderId    string `json:"senderId"`
	ReceiverId  string `json:"receiverId"`
	Message     string `json:"message"`
	MessageType string `json:"messageType"` // text/image/audio，空值按 text 处理
	Image       string `json:"image"`
}

func (e *SendMessageEvent) Validate() error {
	if e.SenderId == "" || e.ReceiverId == "" {
		return errorx.New(errorx.CodeInvalidParam, "senderId 和 receiverId 不能为空")
	}
	if e.SenderId == e.ReceiverId {
		return errorx.New(errorx.CodeInvalidParam, "不能给自己发私信")
	}
	if e.Message == "" && e.Image == "" {
		return errorx.New(errorx.CodeInvalidParam, "消息内容不能为空")
	}
	return nil
}

// MessageReadEvent 话题已读
type MessageReadEvent struct {
	ChatTopicId string `json:"chatTopicId"`
	UserId      string `json:"userId"`
}

func (e *MessageReadEvent) Validate() error {
	if e.ChatTopicId == "" || e.UserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "chatTopicId 和 userId 不能为空")
	}
	return nil
}

// TypingEvent 输入状态透传
type TypingEvent struct {
	SenderId   string `json:"senderId"`
	ReceiverId string `json:"receiverId"`
	IsTyping   bool   `json:"isTyping"`
}

func (e *TypingEvent) Validate() error {
	if e.SenderId == "" || e.ReceiverId == "" {
		return errorx.New(errorx.CodeInvalidParam, "senderId 和 receiverId 不能为空")
	}
	return nil
}

// CallUserEvent 发起呼叫
type CallUserEvent struct {
	CallId      string `json:"callId"`
	CallerId    string `json:"callerId"`
	ReceiverId  string `json:"receiverId"`
	CallerName  string `json:"callerName"`
	CallerImage string `json:"callerImage"`
	Channel     string `json:"channel"`
	Token       string `json:"token"`
}

func (e *CallUserEvent) Validate() error {
	if e.CallId == "" || e.CallerId == "" || e.ReceiverId == "" {
		return errorx.New(errorx.CodeInvalidParam, "callId、callerId 和 receiverId 不能为空")
	}
	return nil
}

// AcceptCallEvent 接听呼叫
type AcceptCallEvent struct {
	CallId     string `json:"callId"`
	CallerId   string `json:"callerId"`
	ReceiverId string `json:"receiverId"`
	IsAccept   bool   `json:"isAccept"`
}

func (e *AcceptCallEvent) Validate() error {
	if e.CallId == "" || e.CallerId == "" {
		return errorx.New(errorx.CodeInvalidParam, "callId 和 callerId 不能为空")
	}
	return nil
}

// RejectCallEvent 拒绝呼叫
type RejectCallEvent struct {
	CallId     string `json:"callId"`
	CallerId   string `json:"callerId"`
	ReceiverId string `json:"receiverId"`
}

func (e *RejectCallEvent) Validate() error {
	if e.CallId == "" || e.CallerId == "" {
		return errorx.New(errorx.CodeInvalidParam, "callId 和 callerId 不能为空")
	}
	return nil
}

// EndCallEvent 挂断呼叫
type EndCallEvent struct {
	CallId      string `json:"callId"`
	UserId      string `json:"userId"`
	OtherUserId string `json:"otherUserId"`
}

func (e *EndCallEvent) Validate() error {
	if e.CallId == "" || e.OtherUserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "callId 和 otherUserId 不能为空")
	}
	return nil
}

// JoinLiveEvent 加入直播间
type JoinLiveEvent struct {
	RoomId string `json:"roomId"`
	UserId string `json:"userId"`
}

func (e *JoinLiveEvent) Validate() error {
	if e.RoomId == "" || e.UserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 和 userId 不能为空")
	}
	return nil
}

// LeaveLiveEvent 离开直播间
type LeaveLiveEvent struct {
	RoomId string `json:"roomId"`
	UserId string `json:"userId"`
}

func (e *LeaveLiveEvent) Validate() error {
	if e.RoomId == "" || e.UserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 和 userId 不能为空")
	}
	return nil
}

// SendCommentEvent 直播间弹幕
type SendCommentEvent struct {
	RoomId      string `json:"roomId"`
	CommentText string `json:"commentText"`
	UserId      string `json:"userId"`
	SenderName  string `json:"senderName"`
	SenderImage string `json:"senderImage"`
}

func (e *SendCommentEvent) Validate() error {
	if e.RoomId == "" || e.UserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 和 userId 不能为空")
	}
	if e.CommentText == "" {
		return errorx.New(errorx.CodeInvalidParam, "弹幕内容不能为空")
	}
	return nil
}

// SendGiftEvent 直播间送礼
type SendGiftEvent struct {
	RoomId         string `json:"roomId"`
	GiftId         string `json:"giftId"`
	GiftCount      int64  `json:"giftCount"`
	GiftUrl        string `json:"giftUrl"`
	GiftType       string `json:"giftType"`
	GiftName       string `json:"giftName"`
	GiftCoin       int64  `json:"giftCoin"`
	SenderUserId   string `json:"senderUserId"`
	ReceiverUserId string `json:"receiverUserId"`
	SenderName     string `json:"senderName"`
	SenderImage    string `json:"senderImage"`
}

func (e *SendGiftEvent) Validate() error {
	if e.RoomId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 不能为空")
	}
	if e.GiftCount < 0 || e.GiftCoin < 0 {
		return errorx.New(errorx.CodeInvalidParam, "giftCount 和 giftCoin 不能为负数")
	}
	return nil
}

// Count giftCount 为 0 时按 1 计
func (e *SendGiftEvent) Count() int64 {
	if e.GiftCount <= 0 {
		return 1
	}
	return e.GiftCount
}

// SeatUpdateEvent 麦位更新，除 roomId 外的字段原样转发
type SeatUpdateEvent struct {
	RoomId      string `json:"roomId"`
	Position    int    `json:"position"`
	Lock        bool   `json:"lock"`
	Mute        bool   `json:"mute"`
	Name        string `json:"name"`
	AgoraUid    int    `json:"agoraUid"`
	UserId      string `json:"userId"`
	Image       string `json:"image"`
	IsOnline    bool   `json:"isOnline"`
	HostIsMuted bool   `json:"hostIsMuted"`
	Speaking    bool   `json:"speaking"`
}

func (e *SeatUpdateEvent) Validate() error {
	if e.RoomId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 不能为空")
	}
	return nil
}

// SeatRequestEvent 申请上麦
type SeatRequestEvent struct {
	RoomId string `json:"roomId"`
	UserId string `json:"userId"`
}

func (e *SeatRequestEvent) Validate() error {
	if e.RoomId == "" || e.UserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 和 userId 不能为空")
	}
	return nil
}

// StartPKEvent 发起 PK 邀请
type StartPKEvent struct {
	RoomId       string `json:"roomId"`
	Host1Id      string `json:"host1Id"`
	Host2Id      string `json:"host2Id"`
	Host1Channel string `json:"host1Channel"`
	Host2Channel string `json:"host2Channel"`
}

func (e *StartPKEvent) Validate() error {
	if e.RoomId == "" || e.Host1Id == "" || e.Host2Id == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId、host1Id 和 host2Id 不能为空")
	}
	return nil
}

// AcceptPKEvent 接受 PK 邀请
type AcceptPKEvent struct {
	RoomId       string `json:"roomId"`
	Host1Id      string `json:"host1Id"`
	Host2Id      string `json:"host2Id"`
	Host2Channel string `json:"host2Channel"`
	Host2Token   string `json:"host2Token"`
}

func (e *AcceptPKEvent) Validate() error {
	if e.RoomId == "" || e.Host2Id == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 和 host2Id 不能为空")
	}
	return nil
}

// EndPKEvent 结束 PK
type EndPKEvent struct {
	RoomId      string `json:"roomId"`
	PkEndUserId string `json:"pkEndUserId"`
}

func (e *EndPKEvent) Validate() error {
	if e.RoomId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 不能为空")
	}
	return nil
}

// UserBlockEvent 直播间拉黑
type UserBlockEvent struct {
	RoomId        string `json:"roomId"`
	BlockedUserId string `json:"blockedUserId"`
}

func (e *UserBlockEvent) Validate() error {
	if e.RoomId == "" || e.BlockedUserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 和 blockedUserId 不能为空")
	}
	return nil
}

// UserUnblockEvent 直播间解除拉黑
type UserUnblockEvent struct {
	RoomId          string `json:"roomId"`
	UnblockedUserId string `json:"unblockedUserId"`
}

func (e *UserUnblockEvent) Validate() error {
	if e.RoomId == "" || e.UnblockedUserId == "" {
		return errorx.New(errorx.CodeInvalidParam, "roomId 和 unblockedUserId 不能为空")
	}
	return nil
}
