package repository

import (
	"muse_live_server/internal/model"

	"gorm.io/gorm"
)

type chatTopicRepository struct {
	db *gorm.DB
}

// NewChatTopicRepository 创建话题 Repository
func NewChatTopicRepository(db *gorm.DB) ChatTopicRepository {
	return &chatTopicRepository{db: db}
}

// FindByUuid 按话题 UUID 查找
func (r *chatTopicRepository) FindByUuid(uuid string) (*model.ChatTopic, error) {
	var topic model.ChatTopic
	if err := r.db.First(&topic, "uuid = ?", uuid).Error; err != nil {
		return nil, wrapDBErrorf(err, "查询话题 uuid=%s", uuid)
	}
	return &topic, nil
}

// FindByPair 按无序用户对查找话题
// 历史数据可能没有按字典序归一化，两个方向都要查
func (r *chatTopicRepository) FindByPair(userA, userB string) (*model.ChatTopic, error) {
	var topic model.ChatTopic
	err := r.db.Where("(user_one_id = ? AND user_two_id = ?) OR (user_one_id = ? AND user_two_id = ?)",
		userA, userB, userB, userA).First(&topic).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询话题 pair=(%s,%s)", userA, userB)
	}
	return &topic, nil
}

// FindByParticipant 查找用户参与的全部话题，按最新消息时间倒序
func (r *chatTopicRepository) FindByParticipant(userId string, offset, limit int) ([]model.ChatTopic, error) {
	var topics []model.ChatTopic
	err := r.db.Where("user_one_id = ? OR user_two_id = ?", userId, userId).
		Order("last_message_at DESC").
		Offset(offset).Limit(limit).
		Find(&topics).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询用户话题列表 uuid=%s", userId)
	}
	return topics, nil
}

// Create 创建话题
func (r *chatTopicRepository) Create(topic *model.ChatTopic) error {
	if err := r.db.Create(topic).Error; err != nil {
		return wrapDBError(err, "创建话题")
	}
	return nil
}

// Save 保存话题
func (r *chatTopicRepository) Save(topic *model.ChatTopic) error {
	if err := r.db.Save(topic).Error; err != nil {
		return wrapDBErrorf(err, "保存话题 uuid=%s", topic.Uuid)
	}
	return nil
}
