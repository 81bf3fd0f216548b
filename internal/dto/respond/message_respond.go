package respond

import "time"

// ChatUserRespond 会话列表条目：对端用户资料 + 话题摘要
type ChatUserRespond struct {
	ChatTopicId string     `json:"chatTopicId"`
	Message     string     `json:"message"`
	MessageType string     `json:"messageType"`
	UnreadCount int        `json:"unreadCount"`
	UserId      string     `json:"userId"`
	Name        string     `json:"name"`
	Username    string     `json:"userName"`
	Image       string     `json:"image"`
	IsOnline    bool       `json:"isOnline"`
	Time        *time.Time `json:"time,omitempty"`
}

// ChatMessageRespond 聊天记录条目
type ChatMessageRespond struct {
	Uuid        int64     `json:"_id,string"`
	ChatTopicId string    `json:"chatTopicId"`
	SenderId    string    `json:"senderId"`
	ReceiverId  string    `json:"receiverId"`
	Message     string    `json:"message"`
	MessageType string    `json:"messageType"`
	Image       string    `json:"image"`
	IsRead      bool      `json:"isRead"`
	Date        time.Time `json:"date"`
}

// SendMessageRespond REST 发送结果
type SendMessageRespond struct {
	Uuid        int64  `json:"_id,string"`
	ChatTopicId string `json:"chatTopicId"`
	Status      string `json:"status"`
}
