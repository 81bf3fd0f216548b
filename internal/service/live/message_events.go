// message_events.go 私信事件处理：发送、已读、输入状态
package live

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
	"muse_live_server/internal/model"
	"muse_live_server/pkg/errorx"
	"muse_live_server/pkg/util/random"
	"muse_live_server/pkg/util/snowflake"

	"go.uber.org/zap"
)

// findOrCreateTopic 查找或创建用户对的私聊话题
// 创建时把字典序较小的 uuid 放在 UserOneId，配合唯一索引保证一对用户只有一个话题
func (h *Hub) findOrCreateTopic(userA, userB string) (*model.ChatTopic, error) {
	topic, err := h.topicRepo.FindByPair(userA, userB)
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
	if err := h.topicRepo.Create(topic); err != nil {
		// 并发创建撞唯一索引时重查一次
		if existing, findErr := h.topicRepo.FindByPair(userA, userB); findErr == nil {
			return existing, nil
		}
		return nil, err
	}
	return topic, nil
}

// handleSendMessage 私信发送
// 持久化消息、更新话题摘要和未读数，在线接收方实时送达，发送方收到回执
func (h *Hub) handleSendMessage(client *Client, data json.RawMessage) {
	var ev request.SendMessageEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "sendMessage 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "sendMessage 参数非法", err)
		return
	}

	topic, err := h.findOrCreateTopic(ev.SenderId, ev.ReceiverId)
	if err != nil {
		zap.L().Error("查找/创建话题失败", zap.Error(err))
		h.replyError(client, "Failed to send message", err)
		return
	}

	messageType := ev.MessageType
	if messageType == "" {
		messageType = model.MessageTypeText
	}
	message := model.Message{
		Uuid:      snowflake.GenerateID(),
		TopicUuid: topic.Uuid,
		SendId:    ev.SenderId,
		ReceiveId: ev.ReceiverId,
		Type:      messageType,
		Content:   ev.Message,
		Url:       ev.Image,
	}
	if err := h.messageRepo.Create(&message); err != nil {
		zap.L().Error("持久化私信失败", zap.Error(err))
		h.replyError(client, "Failed to send message", err)
		return
	}

	// 话题摘要：图片消息无文本时用占位摘要
	summary := ev.Message
	if summary == "" && ev.Image != "" {
		summary = "📷 Image"
	}
	topic.LastMessage = summary
	topic.LastMessageType = messageType
	topic.LastMessageAt = sql.NullTime{Time: time.Now(), Valid: true}
	if topic.UserOneId == ev.ReceiverId {
		topic.UserOneUnread++
	} else {
		topic.UserTwoUnread++
	}
	if err := h.topicRepo.Save(topic); err != nil {
		zap.L().Error("更新话题摘要失败", zap.String("topic", topic.Uuid), zap.Error(err))
	}

	// 发送者资料用于接收端展示，查不到不阻断送达
	var senderName, senderImage string
	if sender, err := h.userRepo.FindByUuid(ev.SenderId); err == nil {
		senderName = sender.Nickname
		senderImage = sender.Avatar
	}

	if receiver := h.presence.Lookup(ev.ReceiverId); receiver != nil {
		receiver.Deliver(MarshalEvent(EventReceiveMessage, respond.ReceiveMessageRespond{
			Uuid:        message.Uuid,
			ChatTopicId: topic.Uuid,
			SenderId:    ev.SenderId,
			ReceiverId:  ev.ReceiverId,
			Message:     ev.Message,
			MessageType: messageType,
			Image:       ev.Image,
			Date:        message.CreatedAt,
			SenderName:  senderName,
			SenderImage: senderImage,
		}))
	}

	if client != nil {
		client.Deliver(MarshalEvent(EventMessageSent, respond.MessageSentRespond{
			Uuid:        message.Uuid,
			ChatTopicId: topic.Uuid,
			Status:      "sent",
		}))
	}
}

// handleMessageRead 清零读者在话题中的未读数并把消息置为已读
func (h *Hub) handleMessageRead(client *Client, data json.RawMessage) {
	var ev request.MessageReadEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "messageRead 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "messageRead 参数非法", err)
		return
	}

	topic, err := h.topicRepo.FindByUuid(ev.ChatTopicId)
	if err != nil {
		if !errorx.IsNotFound(err) {
			zap.L().Error("查询话题失败", zap.String("topic", ev.ChatTopicId), zap.Error(err))
		}
		return
	}
	if topic.UserOneId == ev.UserId {
		topic.UserOneUnread = 0
	} else {
		topic.UserTwoUnread = 0
	}
	if err := h.topicRepo.Save(topic); err != nil {
		zap.L().Error("清零未读数失败", zap.String("topic", topic.Uuid), zap.Error(err))
	}
	if err := h.messageRepo.MarkReadByTopic(topic.Uuid, ev.UserId); err != nil {
		zap.L().Error("标记消息已读失败", zap.String("topic", topic.Uuid), zap.Error(err))
	}
}

// handleTyping 输入状态透传，不落库
func (h *Hub) handleTyping(client *Client, data json.RawMessage) {
	var ev request.TypingEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		h.replyError(client, "typing 载荷格式错误", err)
		return
	}
	if err := ev.Validate(); err != nil {
		h.replyError(client, "typing 参数非法", err)
		return
	}

	if receiver := h.presence.Lookup(ev.ReceiverId); receiver != nil {
		receiver.Deliver(MarshalEvent(EventTyping, respond.TypingRespond{
			SenderId: ev.SenderId,
			IsTyping: ev.IsTyping,
		}))
	}
}
