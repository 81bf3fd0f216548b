package repository

import (
	"muse_live_server/internal/model"

	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户 Repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// FindByUuid 按 UUID 查找用户
func (r *userRepository) FindByUuid(uuid string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 uuid=%s", uuid)
	}
	return &user, nil
}

// FindByUsername 按用户名查找用户
func (r *userRepository) FindByUsername(username string) (*model.UserInfo, error) {
	var user model.UserInfo
	if err := r.db.First(&user, "username = ?", username).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询用户 username=%s", username)
	}
	return &user, nil
}

// FindByUuids 按 UUID 列表批量查找用户
func (r *userRepository) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	var users []model.UserInfo
	if err := r.db.Where("uuid IN ?", uuids).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "批量查询用户")
	}
	return users, nil
}

// FindLiveHosts 查找所有正在直播的用户
func (r *userRepository) FindLiveHosts() ([]model.UserInfo, error) {
	var users []model.UserInfo
	if err := r.db.Where("is_live = ?", 1).Find(&users).Error; err != nil {
		return nil, wrapDBError(err, "查询直播用户列表")
	}
	return users, nil
}

// Create 创建用户
func (r *userRepository) Create(user *model.UserInfo) error {
	if err := r.db.Create(user).Error; err != nil {
		return wrapDBError(err, "创建用户")
	}
	return nil
}

// UpdateUserInfo 保存用户信息
func (r *userRepository) UpdateUserInfo(user *model.UserInfo) error {
	if err := r.db.Save(user).Error; err != nil {
		return wrapDBError(err, "更新用户信息")
	}
	return nil
}

// SetLiveStatus 更新直播标志与房间回指
func (r *userRepository) SetLiveStatus(uuid string, isLive int8, liveRoomId string) error {
	updates := map[string]interface{}{
		"is_live":      isLive,
		"live_room_id": liveRoomId,
	}
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).Updates(updates).Error; err != nil {
		return wrapDBErrorf(err, "更新用户直播状态 uuid=%s", uuid)
	}
	return nil
}

// SetOnlineStatus 更新在线标志
func (r *userRepository) SetOnlineStatus(uuid string, isOnline int8) error {
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", uuid).Update("is_online", isOnline).Error; err != nil {
		return wrapDBErrorf(err, "更新用户在线状态 uuid=%s", uuid)
	}
	return nil
}

// ApplyGiftTransfer 应用送礼双方的余额变动
// 两条 UPDATE 使用 gorm.Expr 原子自增；调用方负责用事务把双方包在一起
func (r *userRepository) ApplyGiftTransfer(senderUuid, receiverUuid string, totalCoin, giftCount int64) error {
	senderUpdates := map[string]interface{}{
		"coin":        gorm.Expr("coin - ?", totalCoin),
		"spent_coins": gorm.Expr("spent_coins + ?", totalCoin),
	}
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", senderUuid).Updates(senderUpdates).Error; err != nil {
		return wrapDBErrorf(err, "扣减送礼方余额 uuid=%s", senderUuid)
	}

	receiverUpdates := map[string]interface{}{
		"coin":           gorm.Expr("coin + ?", totalCoin),
		"received_coins": gorm.Expr("received_coins + ?", totalCoin),
		"received_gifts": gorm.Expr("received_gifts + ?", giftCount),
	}
	if err := r.db.Model(&model.UserInfo{}).Where("uuid = ?", receiverUuid).Updates(receiverUpdates).Error; err != nil {
		return wrapDBErrorf(err, "累加收礼方余额 uuid=%s", receiverUuid)
	}
	return nil
}
