// Package message 提供私信的 REST 业务：会话列表、聊天记录、兜底发送
package message

import (
	"database/sql"
	"fmt"
	"time"

	"muse_live_server/internal/dao/mysql/repository"
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
	"muse_live_server/internal/model"
	"muse_live_server/pkg/errorx"
	"muse_live_server/pkg/util/random"
	"muse_live_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// 分页默认值
const (
	defaultTopicLimit   = 20
	defaultHistoryLimit = 50
)

// Service 私信 REST 服务
type Service struct {
	userRepo    repository.UserRepository
	topicRepo   repository.ChatTopicRepository
	messageRepo repository.MessageRepository
}

// NewMessageService 创建私信 REST 服务
func NewMessageService(
	userRepo repository.UserRepository,
	topicRepo repository.ChatTopicRepository,
	messageRepo repository.MessageRepository,
) *Service {
	return &Service{
		userRepo:    userRepo,
		topicRepo:   topicRepo,
		messageRepo: messageRepo,
	}
}

// GetChatUsers 会话列表
// 按话题的最新消息时间倒序，type=online/unread 在内存中过滤
func (s *Service) GetChatUsers(req request.GetChatUsersRequest) ([]respond.ChatUserRespond, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultTopicLimit
	}
	topics, err := s.topicRepo.FindByParticipant(req.OwnerId, req.Start*limit, limit)
	if err != nil {
		return nil, err
	}

	otherIds := make([]string, 0, len(topics))
	for i := range topics {
		otherIds = append(otherIds, topics[i].OtherUser(req.OwnerId))
	}
	users, err := s.userRepo.FindByUuids(otherIds)
	if err != nil {
		return nil, err
	}
	userByUuid := make(map[string]*model.UserInfo, len(users))
	for i := range users {
		userByUuid[users[i].Uuid] = &users[i]
	}

	list := make([]respond.ChatUserRespond, 0, len(topics))
	for i := range topics {
		topic := &topics[i]
		other, ok := userByUuid[topic.OtherUser(req.OwnerId)]
		if !ok {
			continue
		}
		unread := topic.UnreadOf(req.OwnerId)
		if req.Type == "online" && other.IsOnline == 0 {
			continue
		}
		if req.Type == "unread" && unread == 0 {
			continue
		}

		item := respond.ChatUserRespond{
			ChatTopicId: topic.Uuid,
			Message:     topic.LastMessage,
			MessageType: topic.LastMessageType,
			UnreadCount: unread,
			UserId:      other.Uuid,
			Name:        other.Nickname,
			Username:    other.Username,
			Image:       other.Avatar,
			IsOnline:    other.IsOnline == 1,
		}
		if topic.LastMessageAt.Valid {
			t := topic.LastMessageAt.Time
			item.Time = &t
		}
		list = append(list, item)
	}
	return list, nil
}

// GetChatHistory 聊天记录分页，按时间升序返回，同时标记该话题已读
func (s *Service) GetChatHistory(topicUuid string, req request.GetChatHistoryRequest) ([]respond.ChatMessageRespond, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	messages, err := s.messageRepo.FindByTopic(topicUuid, req.Start*limit, limit)
	if err != nil {
		return nil, err
	}

	// 存储按时间倒序，翻转成升序给客户端
	list := make([]respond.ChatMessageRespond, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		m := &messages[i]
		list = append(list, respond.ChatMessageRespond{
			Uuid:        m.Uuid,
			ChatTopicId: m.TopicUuid,
			SenderId:    m.SendId,
			ReceiverId:  m.ReceiveId,
			Message:     m.Content,
			MessageType: m.Type,
			Image:       m.Url,
			IsRead:      m.IsRead == 1,
			Date:        m.CreatedAt,
		})
	}

	s.markTopicRead(topicUuid, req.OwnerId)
	return list, nil
}

// markTopicRead 清零读者未读数并置消息已读，失败只记日志
func (s *Service) markTopicRead(topicUuid, readerId string) {
	topic, err := s.topicRepo.FindByUuid(topicUuid)
	if err != nil {
		if !errorx.IsNotFound(err) {
			zap.L().Error("查询话题失败", zap.String("topic", topicUuid), zap.Error(err))
		}
		return
	}
	if topic.UserOneId == readerId {
		topic.UserOneUnread = 0
	} else {
		topic.UserTwoUnread = 0
	}
	if err := s.topicRepo.Save(topic); err != nil {
		zap.L().Error("清零未读数失败", zap.String("topic", topicUuid), zap.Error(err))
	}
	if err := s.messageRepo.MarkReadByTopic(topicUuid, readerId); err != nil {
		zap.L().Error("标记消息已读失败", zap.String("topic", topicUuid), zap.Error(err))
	}
}

// SendMessage REST 兜底发送
// 只负责持久化和话题摘要更新，实时送达走 WebSocket 通道
func (s *Service) SendMessage(req request.SendMessageRequest) (*respond.SendMessageRespond, error) {
	if req.SenderId == req.ReceiverId {
		return nil, errorx.New(errorx.CodeInvalidParam, "不能给自己发私信")
	}

	topic, err := s.findOrCreateTopic(req.SenderId, req.ReceiverId)
	if err != nil {
		return nil, err
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = model.MessageTypeText
	}
	message := model.Message{
		Uuid:      snowflake.GenerateID(),
		TopicUuid: topic.Uuid,
		SendId:    req.SenderId,
		ReceiveId: req.ReceiverId,
		Type:      messageType,
		Content:   req.Message,
		Url:       req.Image,
	}
	if err := s.messageRepo.Create(&message); err != nil {
		return nil, err
	}

	summary := req.Message
	if summary == "" && req.Image != "" {
		summary = "📷 Image"
	}
	topic.LastMessage = summary
	topic.LastMessageType = messageType
	topic.LastMessageAt = sql.NullTime{Time: time.Now(), Valid: true}
	if topic.UserOneId == req.ReceiverId {
		topic.UserOneUnread++
	} else {
		topic.UserTwoUnread++
	}
	if err := s.topicRepo.Save(topic); err != nil {
		zap.L().Error("更新话题摘要失败", zap.String("topic", topic.Uuid), zap.Error(err))
	}

	return &respond.SendMessageRespond{
		Uuid:        message.Uuid,
		ChatTopicId: topic.Uuid,
		Status:      "sent",
	}, nil
}

// findOrCreateTopic 查找或创建用户对的话题，较小 uuid 放 UserOneId
func (s *Service) findOrCreateTopic(userA, userB string) (*model.ChatTopic, error) {
	topic, err := s.topicRepo.FindByPair(userA, userB)
	if err == nil {
		return topic, nil
	}
	if !errorx.IsNotFound(err) {
		return nil, err
	}

	one, two := userA, userB
	if one > two {
		one, two = two, one
	}
	topic = &model.ChatTopic{
		Uuid:      fmt.Sprintf("T%s", random.GetNowAndLenRandomString(13)),
		UserOneId: one,
		UserTwoId: two,
	}
	if err := s.topicRepo.Create(topic); err != nil {
		if existing, findErr := s.topicRepo.FindByPair(userA, userB); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return topic, nil
}
