// Package respond 定义响应 DTO
// 本文件为服务端推送的 WebSocket 事件载荷
package respond

import "time"

// UserStatusChangedRespond 全局在线状态变更
type UserStatusChangedRespond struct {
	UserId   string `json:"userId"`
	IsOnline bool   `json:"isOnline"`
}

// ReceiveMessageRespond 私信送达
type ReceiveMessageRespond struct {
	Uuid        int64     `json:"_id,string"`
	ChatTopicId string    `json:"chatTopicId"`
	SenderId    string    `json:"senderId"`
	ReceiverId  string    `json:"receiverId"`
	Message     string    `json:"message"`
	MessageType string    `json:"messageType"`
	Image       string    `json:"image"`
	Date        time.Time `json:"date"`
	SenderName  string    `json:"senderName"`
	SenderImage string    `json:"senderImage"`
}

// MessageSentRespond 私信发送确认
type MessageSentRespond struct {
	Uuid        int64  `json:"_id,string"`
	ChatTopicId string `json:"chatTopicId"`
	Status      string `json:"status"`
}

// TypingRespond 输入状态
type TypingRespond struct {
	SenderId string `json:"senderId"`
	IsTyping bool   `json:"isTyping"`
}

// IncomingCallRespond 来电通知
type IncomingCallRespond struct {
	CallId      string `json:"callId"`
	CallerId    string `json:"callerId"`
	CallerName  string `json:"callerName"`
	CallerImage string `json:"callerImage"`
	Channel     string `json:"channel"`
	Token       string `json:"token"`
}

// CallAcceptedRespond 呼叫被接听
type CallAcceptedRespond struct {
	CallId     string `json:"callId"`
	ReceiverId string `json:"receiverId"`
	IsAccept   bool   `json:"isAccept"`
}

// CallRejectedRespond 呼叫被拒绝
type CallRejectedRespond struct {
	CallId     string `json:"callId"`
	ReceiverId string `json:"receiverId"`
}

// CallEndedRespond 呼叫被挂断
type CallEndedRespond struct {
	CallId string `json:"callId"`
	UserId string `json:"userId"`
}

// CallFailedRespond 呼叫失败
type CallFailedRespond struct {
	Message string `json:"message"`
}

// ViewerJoinedRespond 观众进入直播间
type ViewerJoinedRespond struct {
	UserId string `json:"userId"`
	RoomId string `json:"roomId"`
}

// ViewerLeftRespond 观众离开直播间
type ViewerLeftRespond struct {
	UserId string `json:"userId"`
	RoomId string `json:"roomId"`
}

// ReceiveCommentRespond 直播间弹幕
type ReceiveCommentRespond struct {
	CommentText string    `json:"commentText"`
	UserId      string    `json:"userId"`
	SenderName  string    `json:"senderName"`
	SenderImage string    `json:"senderImage"`
	Date        time.Time `json:"date"`
}

// ReceiveGiftRespond 直播间礼物
type ReceiveGiftRespond struct {
	GiftId       string    `json:"giftId"`
	GiftCount    int64     `json:"giftCount"`
	GiftUrl      string    `json:"giftUrl"`
	GiftType     string    `json:"giftType"`
	GiftName     string    `json:"giftName"`
	GiftCoin     int64     `json:"giftCoin"`
	SenderName   string    `json:"senderName"`
	SenderImage  string    `json:"senderImage"`
	SenderUserId string    `json:"senderUserId"`
	Date         time.Time `json:"date"`
}

// SeatRequestRespond 上麦申请通知
type SeatRequestRespond struct {
	UserId string `json:"userId"`
	RoomId string `json:"roomId"`
}

// PkInviteRespond PK 邀请，发给被邀请的主播
type PkInviteRespond struct {
	Host1Id      string `json:"host1Id"`
	Host1Channel string `json:"host1Channel"`
	RoomId       string `json:"roomId"`
}

// PkStartedRespond PK 开始，广播给直播间
// Duration 为配置的 PK 时长（秒），客户端据此倒计时，服务端不强制结束
type PkStartedRespond struct {
	Host2Id      string `json:"host2Id"`
	Host2Channel string `json:"host2Channel"`
	Host2Token   string `json:"host2Token"`
	Duration     int    `json:"duration"`
}

// PkEndedRespond PK 结束
type PkEndedRespond struct {
	PkEndUserId string `json:"pkEndUserId"`
}

// YouAreBlockedRespond 被拉黑通知，发给被拉黑用户
type YouAreBlockedRespond struct {
	RoomId string `json:"roomId"`
}

// ErrorRespond 事件处理失败，回给发送方
type ErrorRespond struct {
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}
