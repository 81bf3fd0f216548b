// Package repository 定义数据访问层接口
// 所有 Repository 接口在此文件定义，具体实现在各自的文件中
// 事件层与 Service 层依赖这些接口，测试时用内存桩替换
package repository

import (
	"muse_live_server/internal/model"
)

// UserRepository 用户数据访问接口
type UserRepository interface {
	// FindByUuid 按 UUID 查找用户
	FindByUuid(uuid string) (*model.UserInfo, error)
	// FindByUsername 按用户名查找用户
	FindByUsername(username string) (*model.UserInfo, error)
	// FindByUuids 按 UUID 列表批量查找用户
	FindByUuids(uuids []string) ([]model.UserInfo, error)
	// FindLiveHosts 查找所有正在直播的用户
	FindLiveHosts() ([]model.UserInfo, error)
	// Create 创建用户
	Create(user *model.UserInfo) error
	// UpdateUserInfo 保存用户信息
	UpdateUserInfo(user *model.UserInfo) error
	// SetLiveStatus 更新直播标志与房间回指
	SetLiveStatus(uuid string, isLive int8, liveRoomId string) error
	// SetOnlineStatus 更新在线标志（在线注册表异步调用，允许滞后）
	SetOnlineStatus(uuid string, isOnline int8) error
	// ApplyGiftTransfer 应用送礼双方的余额变动
	// 发送方：coin -= total, spent += total；接收方：coin += total, received += total, gifts += count
	// 不做余额前置校验，负数余额按源系统行为保留
	ApplyGiftTransfer(senderUuid, receiverUuid string, totalCoin, giftCount int64) error
}

// ChatTopicRepository 私聊话题数据访问接口
type ChatTopicRepository interface {
	// FindByUuid 按话题 UUID 查找
	FindByUuid(uuid string) (*model.ChatTopic, error)
	// FindByPair 按无序用户对查找话题（两个方向都会命中）
	FindByPair(userA, userB string) (*model.ChatTopic, error)
	// FindByParticipant 查找用户参与的全部话题，按最新消息时间倒序
	FindByParticipant(userId string, offset, limit int) ([]model.ChatTopic, error)
	// Create 创建话题
	Create(topic *model.ChatTopic) error
	// Save 保存话题（摘要、未读计数等）
	Save(topic *model.ChatTopic) error
}

// MessageRepository 私聊消息数据访问接口
type MessageRepository interface {
	// Create 创建消息
	Create(message *model.Message) error
	// FindByTopic 按话题分页查询消息，按创建时间倒序
	FindByTopic(topicUuid string, offset, limit int) ([]model.Message, error)
	// MarkReadByTopic 将话题内发给指定用户的消息置为已读
	MarkReadByTopic(topicUuid, receiverUuid string) error
}

// LiveRecordRepository 直播场次数据访问接口
type LiveRecordRepository interface {
	// FindByUuid 按房间 ID 查找场次
	FindByUuid(uuid string) (*model.LiveRecord, error)
	// Create 创建场次
	Create(record *model.LiveRecord) error
	// End 结束场次：置 is_active=0 并记录关播时间，幂等
	End(uuid string) error
	// AddView 调整观看计数（delta 可为负，结果下限 0）
	AddView(uuid string, delta int64) error
	// AddViewerUser 把观众并入观众集合，已存在时不变
	AddViewerUser(uuid, userId string) error
	// AddRequestedUser 把用户并入上麦申请集合，已存在时不变
	AddRequestedUser(uuid, userId string) error
	// AddBlockedUser 把用户并入拉黑集合，已存在时不变
	AddBlockedUser(uuid, userId string) error
	// RemoveBlockedUser 把用户移出拉黑集合
	RemoveBlockedUser(uuid, userId string) error
	// ApplyGiftCounters 累加本场收礼计数
	ApplyGiftCounters(uuid string, giftCount, coinTotal int64) error
	// SetPkMode 更新 PK 标志
	SetPkMode(uuid string, isPkMode int8) error
}
