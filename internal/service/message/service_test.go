package message

import (
	"errors"
	"sort"
	"testing"
	"time"

	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/model"
	"muse_live_server/pkg/errorx"
)

var errStubNotFound = errorx.New(errorx.CodeNotFound, "record not found")

// stubUserRepo 只实现会话列表用到的批量查询
type stubUserRepo struct {
	users map[string]*model.UserInfo
}

func newStubUserRepo(users ...*model.UserInfo) *stubUserRepo {
	r := &stubUserRepo{users: make(map[string]*model.UserInfo)}
	for _, u := range users {
		r.users[u.Uuid] = u
	}
	return r
}

func (r *stubUserRepo) FindByUuid(uuid string) (*model.UserInfo, error) {
	u, ok := r.users[uuid]
	if !ok {
		return nil, errStubNotFound
	}
	return u, nil
}

func (r *stubUserRepo) FindByUsername(username string) (*model.UserInfo, error) {
	return nil, errStubNotFound
}

func (r *stubUserRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	var out []model.UserInfo
	for _, uuid := range uuids {
		if u, ok := r.users[uuid]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindLiveHosts() ([]model.UserInfo, error) { return nil, nil }

func (r *stubUserRepo) Create(user *model.UserInfo) error { return nil }

func (r *stubUserRepo) UpdateUserInfo(user *model.UserInfo) error { return nil }

func (r *stubUserRepo) SetLiveStatus(uuid string, isLive int8, liveRoomId string) error { return nil }

func (r *stubUserRepo) SetOnlineStatus(uuid string, isOnline int8) error { return nil }

func (r *stubUserRepo) ApplyGiftTransfer(senderUuid, receiverUuid string, totalCoin, giftCount int64) error {
	return nil
}

// stubTopicRepo 以无序用户对为唯一键的话题桩
type stubTopicRepo struct {
	topics    map[string]*model.ChatTopic
	createErr error
}

func newStubTopicRepo() *stubTopicRepo {
	return &stubTopicRepo{topics: make(map[string]*model.ChatTopic)}
}

func (r *stubTopicRepo) FindByUuid(uuid string) (*model.ChatTopic, error) {
	t, ok := r.topics[uuid]
	if !ok {
		return nil, errStubNotFound
	}
	return t, nil
}

func (r *stubTopicRepo) FindByPair(userA, userB string) (*model.ChatTopic, error) {
	for _, t := range r.topics {
		if (t.UserOneId == userA && t.UserTwoId == userB) || (t.UserOneId == userB && t.UserTwoId == userA) {
			return t, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubTopicRepo) FindByParticipant(userId string, offset, limit int) ([]model.ChatTopic, error) {
	var out []model.ChatTopic
	for _, t := range r.topics {
		if t.UserOneId == userId || t.UserTwoId == userId {
			out = append(out, *t)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LastMessageAt.Time.After(out[j].LastMessageAt.Time)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubTopicRepo) Create(topic *model.ChatTopic) error {
	if r.createErr != nil {
		return r.createErr
	}
	if _, err := r.FindByPair(topic.UserOneId, topic.UserTwoId); err == nil {
		return errors.New("duplicate topic pair")
	}
	r.topics[topic.Uuid] = topic
	return nil
}

func (r *stubTopicRepo) Save(topic *model.ChatTopic) error {
	r.topics[topic.Uuid] = topic
	return nil
}

// stubMessageRepo 追加存储，FindByTopic 按插入序倒序返回
type stubMessageRepo struct {
	messages []*model.Message
}

func (r *stubMessageRepo) Create(message *model.Message) error {
	if message.CreatedAt.IsZero() {
		message.CreatedAt = time.Now()
	}
	r.messages = append(r.messages, message)
	return nil
}

func (r *stubMessageRepo) FindByTopic(topicUuid string, offset, limit int) ([]model.Message, error) {
	var out []model.Message
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].TopicUuid == topicUuid {
			out = append(out, *r.messages[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubMessageRepo) MarkReadByTopic(topicUuid, receiverUuid string) error {
	for _, m := range r.messages {
		if m.TopicUuid == topicUuid && m.ReceiveId == receiverUuid {
			m.IsRead = 1
		}
	}
	return nil
}

type fixture struct {
	svc      *Service
	users    *stubUserRepo
	topics   *stubTopicRepo
	messages *stubMessageRepo
}

func newFixture(users ...*model.UserInfo) *fixture {
	f := &fixture{
		users:    newStubUserRepo(users...),
		topics:   newStubTopicRepo(),
		messages: &stubMessageRepo{},
	}
	f.svc = NewMessageService(f.users, f.topics, f.messages)
	return f
}

func user(uuid, nickname string, online int8) *model.UserInfo {
	return &model.UserInfo{Uuid: uuid, Username: "u_" + uuid, Nickname: nickname, IsOnline: online}
}

func (f *fixture) topicOf(userA, userB string) *model.ChatTopic {
	t, err := f.topics.FindByPair(userA, userB)
	if err != nil {
		return nil
	}
	return t
}

func TestSendMessageCreatesTopicAndMessage(t *testing.T) {
	f := newFixture(user("U1", "alice", 1), user("U2", "bob", 0))

	rsp, err := f.svc.SendMessage(request.SendMessageRequest{
		SenderId:   "U2",
		ReceiverId: "U1",
		Message:    "hello",
	})
	if err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if rsp.Status != "sent" || rsp.Uuid == 0 {
		t.Fatalf("unexpected respond %+v", rsp)
	}

	topic := f.topicOf("U1", "U2")
	if topic == nil {
		t.Fatal("topic not created")
	}
	if rsp.ChatTopicId != topic.Uuid {
		t.Fatalf("respond topic = %s, want %s", rsp.ChatTopicId, topic.Uuid)
	}
	// 字典序较小的一方放 UserOneId
	if topic.UserOneId != "U1" || topic.UserTwoId != "U2" {
		t.Fatalf("pair not normalized: %s/%s", topic.UserOneId, topic.UserTwoId)
	}
	if topic.LastMessage != "hello" || topic.LastMessageType != model.MessageTypeText {
		t.Fatalf("summary not updated: %+v", topic)
	}
	if !topic.LastMessageAt.Valid {
		t.Fatal("LastMessageAt not stamped")
	}
	// 未读加在接收方
	if topic.UnreadOf("U1") != 1 || topic.UnreadOf("U2") != 0 {
		t.Fatalf("unread = %d/%d", topic.UnreadOf("U1"), topic.UnreadOf("U2"))
	}

	if len(f.messages.messages) != 1 {
		t.Fatalf("message count = %d", len(f.messages.messages))
	}
	m := f.messages.messages[0]
	if m.SendId != "U2" || m.ReceiveId != "U1" || m.Type != model.MessageTypeText {
		t.Fatalf("unexpected message %+v", m)
	}
}

func TestSendMessageReusesTopicBothDirections(t *testing.T) {
	f := newFixture(user("U1", "alice", 1), user("U2", "bob", 1))

	if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U1", ReceiverId: "U2", Message: "hi"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U2", ReceiverId: "U1", Message: "yo"}); err != nil {
		t.Fatalf("SendMessage reverse: %v", err)
	}

	if len(f.topics.topics) != 1 {
		t.Fatalf("topic count = %d, want 1", len(f.topics.topics))
	}
	topic := f.topicOf("U1", "U2")
	if topic.UnreadOf("U1") != 1 || topic.UnreadOf("U2") != 1 {
		t.Fatalf("unread = %d/%d", topic.UnreadOf("U1"), topic.UnreadOf("U2"))
	}
	if topic.LastMessage != "yo" {
		t.Fatalf("last message = %q", topic.LastMessage)
	}
}

func TestSendMessageToSelfRejected(t *testing.T) {
	f := newFixture(user("U1", "alice", 1))

	_, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U1", ReceiverId: "U1", Message: "me"})
	if err == nil {
		t.Fatal("expected error for self send")
	}
	var codeErr *errorx.CodeError
	if !errors.As(err, &codeErr) || codeErr.Code != errorx.CodeInvalidParam {
		t.Fatalf("unexpected error %v", err)
	}
}

func TestSendMessageImageSummary(t *testing.T) {
	f := newFixture(user("U1", "alice", 1), user("U2", "bob", 1))

	if _, err := f.svc.SendMessage(request.SendMessageRequest{
		SenderId:    "U1",
		ReceiverId:  "U2",
		MessageType: model.MessageTypeImage,
		Image:       "http://img/1.png",
	}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	topic := f.topicOf("U1", "U2")
	if topic.LastMessage != "📷 Image" || topic.LastMessageType != model.MessageTypeImage {
		t.Fatalf("image summary wrong: %+v", topic)
	}
	if f.messages.messages[0].Url != "http://img/1.png" {
		t.Fatalf("url not persisted: %+v", f.messages.messages[0])
	}
}

func TestGetChatHistoryAscendingAndMarksRead(t *testing.T) {
	f := newFixture(user("U1", "alice", 1), user("U2", "bob", 1))
	for _, text := range []string{"m1", "m2", "m3"} {
		if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U2", ReceiverId: "U1", Message: text}); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}
	topic := f.topicOf("U1", "U2")
	if topic.UnreadOf("U1") != 3 {
		t.Fatalf("unread before read = %d", topic.UnreadOf("U1"))
	}

	list, err := f.svc.GetChatHistory(topic.Uuid, request.GetChatHistoryRequest{OwnerId: "U1"})
	if err != nil {
		t.Fatalf("GetChatHistory: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("history size = %d", len(list))
	}
	for i, want := range []string{"m1", "m2", "m3"} {
		if list[i].Message != want {
			t.Fatalf("history[%d] = %q, want %q", i, list[i].Message, want)
		}
	}

	// 读取后清零未读并置消息已读
	topic = f.topicOf("U1", "U2")
	if topic.UnreadOf("U1") != 0 {
		t.Fatalf("unread after read = %d", topic.UnreadOf("U1"))
	}
	for _, m := range f.messages.messages {
		if m.ReceiveId == "U1" && m.IsRead != 1 {
			t.Fatalf("message %q not marked read", m.Content)
		}
	}
}

func TestGetChatHistoryPaging(t *testing.T) {
	f := newFixture(user("U1", "alice", 1), user("U2", "bob", 1))
	for _, text := range []string{"m1", "m2", "m3"} {
		if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U2", ReceiverId: "U1", Message: text}); err != nil {
			t.Fatalf("SendMessage: %v", err)
		}
	}
	topic := f.topicOf("U1", "U2")

	// 第 0 页取最新两条，升序返回
	page, err := f.svc.GetChatHistory(topic.Uuid, request.GetChatHistoryRequest{OwnerId: "U1", Start: 0, Limit: 2})
	if err != nil {
		t.Fatalf("GetChatHistory: %v", err)
	}
	if len(page) != 2 || page[0].Message != "m2" || page[1].Message != "m3" {
		t.Fatalf("page 0 = %+v", page)
	}

	// 第 1 页取更早的消息
	page, err = f.svc.GetChatHistory(topic.Uuid, request.GetChatHistoryRequest{OwnerId: "U1", Start: 1, Limit: 2})
	if err != nil {
		t.Fatalf("GetChatHistory: %v", err)
	}
	if len(page) != 1 || page[0].Message != "m1" {
		t.Fatalf("page 1 = %+v", page)
	}
}

func TestGetChatUsersOrderAndFilters(t *testing.T) {
	f := newFixture(user("U1", "alice", 1), user("U2", "bob", 1), user("U3", "carol", 0))

	if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U3", ReceiverId: "U1", Message: "old"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U1", ReceiverId: "U2", Message: "new"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	all, err := f.svc.GetChatUsers(request.GetChatUsersRequest{OwnerId: "U1"})
	if err != nil {
		t.Fatalf("GetChatUsers: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("list size = %d", len(all))
	}
	// 最新消息的话题排前面
	if all[0].UserId != "U2" || all[1].UserId != "U3" {
		t.Fatalf("order = %s,%s", all[0].UserId, all[1].UserId)
	}
	if all[0].Message != "new" || all[0].Time == nil {
		t.Fatalf("summary fields wrong: %+v", all[0])
	}
	if all[1].UnreadCount != 1 {
		t.Fatalf("U3 unread = %d", all[1].UnreadCount)
	}

	online, err := f.svc.GetChatUsers(request.GetChatUsersRequest{OwnerId: "U1", Type: "online"})
	if err != nil {
		t.Fatalf("GetChatUsers online: %v", err)
	}
	if len(online) != 1 || online[0].UserId != "U2" {
		t.Fatalf("online filter = %+v", online)
	}

	unread, err := f.svc.GetChatUsers(request.GetChatUsersRequest{OwnerId: "U1", Type: "unread"})
	if err != nil {
		t.Fatalf("GetChatUsers unread: %v", err)
	}
	if len(unread) != 1 || unread[0].UserId != "U3" {
		t.Fatalf("unread filter = %+v", unread)
	}
}

func TestGetChatUsersPaging(t *testing.T) {
	f := newFixture(user("U1", "alice", 1), user("U2", "bob", 1), user("U3", "carol", 1))

	if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U1", ReceiverId: "U3", Message: "a"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, err := f.svc.SendMessage(request.SendMessageRequest{SenderId: "U1", ReceiverId: "U2", Message: "b"}); err != nil {
		t.Fatalf("SendMessage: %v", err)
	}

	page, err := f.svc.GetChatUsers(request.GetChatUsersRequest{OwnerId: "U1", Start: 0, Limit: 1})
	if err != nil {
		t.Fatalf("GetChatUsers: %v", err)
	}
	if len(page) != 1 || page[0].UserId != "U2" {
		t.Fatalf("page 0 = %+v", page)
	}

	page, err = f.svc.GetChatUsers(request.GetChatUsersRequest{OwnerId: "U1", Start: 1, Limit: 1})
	if err != nil {
		t.Fatalf("GetChatUsers: %v", err)
	}
	if len(page) != 1 || page[0].UserId != "U3" {
		t.Fatalf("page 1 = %+v", page)
	}
}
