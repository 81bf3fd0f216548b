// Package model 定义数据库实体模型
// 本文件定义直播场次模型：内存房间会话的持久化影子，承载累计计数
package model

import (
	"database/sql"

	"gorm.io/gorm"
)

// 直播类型取值
const (
	LiveTypeVideo = 1 // 视频直播
	LiveTypeAudio = 2 // 语音房
	LiveTypePk    = 3 // PK 对战
)

// LiveRecord 直播场次模型
// 对应数据库 live_record 表
// 一次开播写入一条记录；观看/礼物等计数由事件层尽力而为地更新，
// 语音房可能使用非规范房间 ID，对应更新会被跳过而不是报错
type LiveRecord struct {
	gorm.Model

	// Uuid 房间唯一标识，格式 live_<host uuid>_<毫秒时间戳>
	Uuid string `gorm:"column:uuid;uniqueIndex;type:varchar(64);comment:房间id"`

	// HostUuid 主播 UUID
	HostUuid string `gorm:"column:host_uuid;index;type:char(20);not null;comment:主播uuid"`

	// Channel RTC 频道名
	Channel string `gorm:"column:channel;type:varchar(64);not null;comment:RTC频道"`

	// Token 开播时签发的 RTC token
	Token string `gorm:"column:token;type:varchar(255);comment:RTC token"`

	// AgoraUid 主播在 RTC 频道内的数字 uid
	AgoraUid int64 `gorm:"column:agora_uid;default:0;comment:RTC uid"`

	// LiveType 直播类型：1.视频 2.语音房 3.PK
	LiveType int8 `gorm:"column:live_type;index;not null;default:1;comment:直播类型"`

	// RoomName 房间名称
	RoomName string `gorm:"column:room_name;type:varchar(60);comment:房间名称"`

	// RoomWelcome 进房欢迎语
	RoomWelcome string `gorm:"column:room_welcome;type:varchar(150);comment:欢迎语"`

	// RoomImage 房间背景图
	RoomImage string `gorm:"column:room_image;type:varchar(255);comment:背景图"`

	// IsPrivate 是否私密房间
	IsPrivate int8 `gorm:"column:is_private;not null;default:0;comment:是否私密，0.否，1.是"`

	// PrivateCode 私密房间口令
	PrivateCode string `gorm:"column:private_code;type:char(10);comment:私密口令"`

	// View 累计观看次数（进房 +1，退房 -1，下限 0）
	View int64 `gorm:"column:view;not null;default:0;comment:观看计数"`

	// Viewers 进过房的观众 uuid 集合（JSON 数组，重复进房不重复记录）
	Viewers string `gorm:"column:viewers;type:json;comment:观众集合"`

	// RequestedUsers 申请过上麦的用户 uuid 集合（JSON 数组）
	RequestedUsers string `gorm:"column:requested_users;type:json;comment:上麦申请集合"`

	// BlockedUsers 本场被拉黑的用户 uuid 集合（JSON 数组，解除拉黑时移除）
	BlockedUsers string `gorm:"column:blocked_users;type:json;comment:拉黑集合"`

	// IsPkMode 是否处于 PK 状态
	IsPkMode int8 `gorm:"column:is_pk_mode;not null;default:0;comment:是否PK中，0.否，1.是"`

	// IsActive 场次是否仍在进行
	IsActive int8 `gorm:"column:is_active;index;not null;default:1;comment:是否进行中，0.已结束，1.进行中"`

	// TotalGiftsReceived 本场累计收礼个数
	TotalGiftsReceived int64 `gorm:"column:total_gifts_received;not null;default:0;comment:累计收礼个数"`

	// TotalCoinsEarned 本场累计收礼金币
	TotalCoinsEarned int64 `gorm:"column:total_coins_earned;not null;default:0;comment:累计收礼金币"`

	// StartedAt 开播时间
	StartedAt sql.NullTime `gorm:"column:started_at;type:datetime;comment:开播时间"`

	// EndedAt 关播时间
	EndedAt sql.NullTime `gorm:"column:ended_at;type:datetime;comment:关播时间"`
}

// TableName 指定表名
func (LiveRecord) TableName() string {
	return "live_record"
}
