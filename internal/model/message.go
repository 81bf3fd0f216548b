// Package model 定义数据库实体模型
// 本文件定义私聊消息模型
package model

import (
	"gorm.io/gorm"
)

// 消息类型取值
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeAudio = "audio"
	MessageTypeGift  = "gift"
)

// Message 私聊消息模型
// 对应数据库 message 表
// 消息创建后除已读标志外不再变更，也不会被本服务删除
type Message struct {
	gorm.Model

	// Uuid 消息唯一标识
	// 使用雪花算法生成的 int64，bigint 避免溢出
	Uuid int64 `gorm:"column:uuid;uniqueIndex;type:bigint;not null;comment:消息雪花ID"`

	// TopicUuid 所属话题
	TopicUuid string `gorm:"column:topic_uuid;index;type:char(20);not null;comment:话题uuid"`

	// SendId 发送者 UUID
	SendId string `gorm:"column:send_id;index;type:char(20);not null;comment:发送者uuid"`

	// ReceiveId 接收者 UUID
	ReceiveId string `gorm:"column:receive_id;index;type:char(20);not null;comment:接收者uuid"`

	// Type 消息类型：text/image/audio/gift
	Type string `gorm:"column:type;type:char(10);not null;default:text;comment:消息类型"`

	// Content 文本内容（非文本消息可为空）
	Content string `gorm:"column:content;type:TEXT;comment:消息内容"`

	// Url 图片/语音等媒体资源链接
	Url string `gorm:"column:url;type:varchar(255);comment:媒体url"`

	// IsRead 已读标志
	IsRead int8 `gorm:"column:is_read;not null;default:0;comment:是否已读，0.未读，1.已读"`
}

// TableName 指定表名
func (Message) TableName() string {
	return "message"
}
