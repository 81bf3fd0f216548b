// Package model 定义数据库实体模型
// 本文件定义用户信息模型，包含账号资料、金币账户与直播状态
package model

import (
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserInfo 用户信息模型
// 对应数据库 user_info 表
type UserInfo struct {
	gorm.Model

	// Uuid 用户唯一标识
	// 格式：U + 13位时间戳随机字符串，如 "U240104abcd1234567"
	Uuid string `gorm:"column:uuid;uniqueIndex;type:char(20);comment:用户唯一id"`

	// Nickname 展示昵称
	Nickname string `gorm:"column:nickname;type:varchar(30);not null;comment:昵称"`

	// Username 登录用户名，全局唯一
	Username string `gorm:"column:username;uniqueIndex;type:varchar(30);not null;comment:用户名"`

	// Avatar 头像 URL
	Avatar string `gorm:"column:avatar;type:varchar(255);comment:头像"`

	// Bio 个人简介
	Bio string `gorm:"column:bio;type:varchar(150);comment:个人简介"`

	// Password 密码（bcrypt 哈希后存储）
	Password string `gorm:"column:password;type:varchar(100);not null;comment:密码"`

	// Coin 金币余额
	// 礼物打赏按该字段扣减/累加；参照源系统，扣减不做余额前置校验，可能出现负数
	Coin int64 `gorm:"column:coin;not null;default:0;comment:金币余额"`

	// SpentCoins 累计送礼消耗金币
	SpentCoins int64 `gorm:"column:spent_coins;not null;default:0;comment:累计消耗金币"`

	// ReceivedCoins 累计收礼获得金币
	ReceivedCoins int64 `gorm:"column:received_coins;not null;default:0;comment:累计收礼金币"`

	// ReceivedGifts 累计收到礼物个数
	ReceivedGifts int64 `gorm:"column:received_gifts;not null;default:0;comment:累计收礼个数"`

	// IsHost 是否具备开播资格
	IsHost int8 `gorm:"column:is_host;not null;default:0;comment:是否主播，0.否，1.是"`

	// IsLive 是否正在直播
	// 与内存房间注册表保持最终一致；列表接口以此为准并回填会话信息
	IsLive int8 `gorm:"column:is_live;index;not null;default:0;comment:是否正在直播，0.否，1.是"`

	// LiveRoomId 正在直播的房间 ID（开播时写入，关播时清空）
	LiveRoomId string `gorm:"column:live_room_id;type:varchar(64);comment:直播房间id"`

	// IsOnline 在线标志
	// 由在线注册表异步落库，可能滞后于内存状态
	IsOnline int8 `gorm:"column:is_online;not null;default:0;comment:是否在线，0.否，1.是"`

	// IsAdmin 管理员标志
	IsAdmin int8 `gorm:"column:is_admin;not null;default:0;comment:是否是管理员，0.不是，1.是"`

	// Status 账号状态
	// 0=正常, 1=禁用
	Status int8 `gorm:"column:status;index;not null;default:0;comment:状态，0.正常，1.禁用"`

	// RawPassword 明文密码（不存入数据库）
	// 用于接收前端传来的明文密码，在 BeforeSave 中加密
	RawPassword string `gorm:"-" json:"-"`
}

// TableName 指定表名
func (UserInfo) TableName() string {
	return "user_info"
}

// BeforeSave GORM Hook：在创建和更新前自动调用
// 将 RawPassword 明文密码加密后存入 Password 字段
func (u *UserInfo) BeforeSave(tx *gorm.DB) (err error) {
	if u.RawPassword != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.RawPassword), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		u.Password = string(hash)
		u.RawPassword = "" // 清空明文，防止泄露
	}
	return nil
}

// CheckPassword 校验密码是否正确
func (u *UserInfo) CheckPassword(plaintext string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(plaintext))
	return err == nil
}
