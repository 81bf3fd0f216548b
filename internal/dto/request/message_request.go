package request

// GetChatUsersRequest 会话列表请求
// Type 过滤：all（默认）、online、unread
type GetChatUsersRequest struct {
	OwnerId string `form:"ownerId" binding:"required"`
	Type    string `form:"type"`
	Start   int    `form:"start"`
	Limit   int    `form:"limit"`
}

// GetChatHistoryRequest 聊天记录请求
type GetChatHistoryRequest struct {
	OwnerId string `form:"ownerId" binding:"required"`
	Start   int    `form:"start"`
	Limit   int    `form:"limit"`
}

// SendMessageRequest REST 兜底发送私信
// 只落库，不做实时推送，在线送达走 WebSocket 通道
type SendMessageRequest struct {
	SenderId    string `json:"senderId" binding:"required"`
	ReceiverId  string `json:"receiverId" binding:"required"`
	Message     string `json:"message"`
	MessageType string `json:"messageType"`
	Image       string `json:"image"`
}
