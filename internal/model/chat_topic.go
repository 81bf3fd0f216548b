// Package model 定义数据库实体模型
// 本文件定义私聊话题模型：一对用户之间有且仅有一个话题
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// ChatTopic 私聊话题模型
// 对应数据库 chat_topic 表
// 话题按无序用户对唯一：创建前统一把较小的 uuid 放在 UserOneId，
// 配合 (user_one_id, user_two_id) 唯一索引保证同一对用户只有一条记录
type ChatTopic struct {
	gorm.Model

	// Uuid 话题唯一标识
	// 格式：T + 13位时间戳随机字符串
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:话题uuid"`

	// UserOneId 用户对中字典序较小的一方
	UserOneId string `gorm:"column:user_one_id;type:char(20);not null;uniqueIndex:idx_topic_pair;comment:用户一uuid"`

	// UserTwoId 用户对中字典序较大的一方
	UserTwoId string `gorm:"column:user_two_id;type:char(20);not null;uniqueIndex:idx_topic_pair;comment:用户二uuid"`

	// LastMessage 最新消息摘要，冗余存储用于会话列表展示
	LastMessage string `gorm:"column:last_message;type:TEXT;comment:最新消息"`

	// LastMessageType 最新消息类型：text/image/audio/gift
	LastMessageType string `gorm:"column:last_message_type;type:char(10);default:text;comment:最新消息类型"`

	// LastMessageAt 最新消息时间，用于会话列表排序
	LastMessageAt sql.NullTime `gorm:"column:last_message_at;type:datetime;comment:最新消息时间"`

	// UserOneUnread 用户一的未读计数
	UserOneUnread int `gorm:"column:user_one_unread;not null;default:0;comment:用户一未读数"`

	// UserTwoUnread 用户二的未读计数
	UserTwoUnread int `gorm:"column:user_two_unread;not null;default:0;comment:用户二未读数"`
}

// TableName 指定表名
func (ChatTopic) TableName() string {
	return "chat_topic"
}

// OtherUser 返回话题中给定用户的对端
func (t *ChatTopic) OtherUser(userId string) string {
	if t.UserOneId == userId {
		return t.UserTwoId
	}
	return t.UserOneId
}

// UnreadOf 返回给定用户在话题中的未读计数
func (t *ChatTopic) UnreadOf(userId string) int {
	if t.UserOneId == userId {
		return t.UserOneUnread
	}
	return t.UserTwoUnread
}
