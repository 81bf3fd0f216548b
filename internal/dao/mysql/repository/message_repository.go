package repository

import (
	"muse_live_server/internal/model"

	"gorm.io/gorm"
)

type messageRepository struct {
	db *gorm.DB
}

// NewMessageRepository 创建消息 Repository
func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

// Create 持久化一条消息
func (r *messageRepository) Create(message *model.Message) error {
	if err := r.db.Create(message).Error; err != nil {
		return wrapDBError(err, "创建消息")
	}
	return nil
}

// FindByTopic 按话题拉取消息，按创建时间倒序分页
func (r *messageRepository) FindByTopic(topicUuid string, offset, limit int) ([]model.Message, error) {
	var messages []model.Message
	err := r.db.Where("topic_uuid = ?", topicUuid).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, wrapDBErrorf(err, "查询话题消息 topic=%s", topicUuid)
	}
	return messages, nil
}

// MarkReadByTopic 把话题内发给 readerId 的未读消息全部置为已读
func (r *messageRepository) MarkReadByTopic(topicUuid, readerId string) error {
	err := r.db.Model(&model.Message{}).
		Where("topic_uuid = ? AND receive_id = ? AND is_read = 0", topicUuid, readerId).
		Update("is_read", int8(1)).Error
	if err != nil {
		return wrapDBErrorf(err, "标记已读 topic=%s reader=%s", topicUuid, readerId)
	}
	return nil
}
