// 事件中心测试用的内存桩，替代 MySQL Repository 和礼物账本
package live

import (
	"encoding/json"
	"sort"
	"sync"
	"testing"
	"time"

	"muse_live_server/internal/model"
	"muse_live_server/pkg/errorx"
)

var errStubNotFound = errorx.New(errorx.CodeNotFound, "record not found")

// ---- 用户桩 ----

type stubUserRepo struct {
	mu    sync.Mutex
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
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uuid]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, errStubNotFound
}

func (r *stubUserRepo) FindByUsername(username string) (*model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubUserRepo) FindByUuids(uuids []string) ([]model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.UserInfo, 0, len(uuids))
	for _, id := range uuids {
		if u, ok := r.users[id]; ok {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *stubUserRepo) FindLiveHosts() ([]model.UserInfo, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.UserInfo
	for _, u := range r.users {
		if u.IsLive == 1 {
			out = append(out, *u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Uuid < out[j].Uuid })
	return out, nil
}

func (r *stubUserRepo) Create(user *model.UserInfo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *user
	r.users[user.Uuid] = &copied
	return nil
}

func (r *stubUserRepo) UpdateUserInfo(user *model.UserInfo) error {
	return r.Create(user)
}

func (r *stubUserRepo) SetLiveStatus(uuid string, isLive int8, liveRoomId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[uuid]
	if !ok {
		return errStubNotFound
	}
	u.IsLive = isLive
	u.LiveRoomId = liveRoomId
	return nil
}

func (r *stubUserRepo) SetOnlineStatus(uuid string, isOnline int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uuid]; ok {
		u.IsOnline = isOnline
	}
	return nil
}

func (r *stubUserRepo) ApplyGiftTransfer(senderUuid, receiverUuid string, totalCoin, giftCount int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	sender, ok := r.users[senderUuid]
	if !ok {
		return errStubNotFound
	}
	receiver, ok := r.users[receiverUuid]
	if !ok {
		return errStubNotFound
	}
	sender.Coin -= totalCoin
	sender.SpentCoins += totalCoin
	receiver.Coin += totalCoin
	receiver.ReceivedCoins += totalCoin
	receiver.ReceivedGifts += giftCount
	return nil
}

func (r *stubUserRepo) onlineStatus(uuid string) int8 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[uuid]; ok {
		return u.IsOnline
	}
	return 0
}

// ---- 话题桩 ----

type stubTopicRepo struct {
	mu     sync.Mutex
	topics map[string]*model.ChatTopic
}

func newStubTopicRepo() *stubTopicRepo {
	return &stubTopicRepo{topics: make(map[string]*model.ChatTopic)}
}

func (r *stubTopicRepo) FindByUuid(uuid string) (*model.ChatTopic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if t, ok := r.topics[uuid]; ok {
		copied := *t
		return &copied, nil
	}
	return nil, errStubNotFound
}

func (r *stubTopicRepo) FindByPair(userA, userB string) (*model.ChatTopic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.topics {
		if (t.UserOneId == userA && t.UserTwoId == userB) ||
			(t.UserOneId == userB && t.UserTwoId == userA) {
			copied := *t
			return &copied, nil
		}
	}
	return nil, errStubNotFound
}

func (r *stubTopicRepo) FindByParticipant(userId string, offset, limit int) ([]model.ChatTopic, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
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
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubTopicRepo) Create(topic *model.ChatTopic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range r.topics {
		if t.UserOneId == topic.UserOneId && t.UserTwoId == topic.UserTwoId {
			return errorx.New(errorx.CodeDBError, "duplicate pair")
		}
	}
	copied := *topic
	r.topics[topic.Uuid] = &copied
	return nil
}

func (r *stubTopicRepo) Save(topic *model.ChatTopic) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *topic
	r.topics[topic.Uuid] = &copied
	return nil
}

func (r *stubTopicRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.topics)
}

func (r *stubTopicRepo) byPair(userA, userB string) *model.ChatTopic {
	t, err := r.FindByPair(userA, userB)
	if err != nil {
		return nil
	}
	return t
}

// ---- 消息桩 ----

type stubMessageRepo struct {
	mu       sync.Mutex
	messages []model.Message
}

func newStubMessageRepo() *stubMessageRepo {
	return &stubMessageRepo{}
}

func (r *stubMessageRepo) Create(message *model.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	message.CreatedAt = time.Now()
	r.messages = append(r.messages, *message)
	return nil
}

func (r *stubMessageRepo) FindByTopic(topicUuid string, offset, limit int) ([]model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.Message
	// 新消息在前
	for i := len(r.messages) - 1; i >= 0; i-- {
		if r.messages[i].TopicUuid == topicUuid {
			out = append(out, r.messages[i])
		}
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *stubMessageRepo) MarkReadByTopic(topicUuid, receiverUuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.messages {
		if r.messages[i].TopicUuid == topicUuid && r.messages[i].ReceiveId == receiverUuid {
			r.messages[i].IsRead = 1
		}
	}
	return nil
}

func (r *stubMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

// ---- 场次桩 ----

type stubLiveRepo struct {
	mu      sync.Mutex
	records map[string]*model.LiveRecord

	viewers   map[string][]string
	requested map[string][]string
	blocked   map[string][]string
}

func newStubLiveRepo(records ...*model.LiveRecord) *stubLiveRepo {
	r := &stubLiveRepo{
		records:   make(map[string]*model.LiveRecord),
		viewers:   make(map[string][]string),
		requested: make(map[string][]string),
		blocked:   make(map[string][]string),
	}
	for _, rec := range records {
		r.records[rec.Uuid] = rec
	}
	return r
}

func (r *stubLiveRepo) FindByUuid(uuid string) (*model.LiveRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[uuid]; ok {
		copied := *rec
		return &copied, nil
	}
	return nil, errStubNotFound
}

func (r *stubLiveRepo) Create(record *model.LiveRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *record
	r.records[record.Uuid] = &copied
	return nil
}

func (r *stubLiveRepo) End(uuid string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[uuid]; ok {
		rec.IsActive = 0
	}
	return nil
}

func (r *stubLiveRepo) AddView(uuid string, delta int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.records[uuid]
	if !ok {
		return errStubNotFound
	}
	rec.View += delta
	if rec.View < 0 {
		rec.View = 0
	}
	return nil
}

func (r *stubLiveRepo) AddViewerUser(uuid, userId string) error {
	return r.addToSet(r.viewers, uuid, userId)
}

func (r *stubLiveRepo) AddRequestedUser(uuid, userId string) error {
	return r.addToSet(r.requested, uuid, userId)
}

func (r *stubLiveRepo) AddBlockedUser(uuid, userId string) error {
	return r.addToSet(r.blocked, uuid, userId)
}

func (r *stubLiveRepo) RemoveBlockedUser(uuid, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[uuid]; !ok {
		return errStubNotFound
	}
	set := r.blocked[uuid]
	for i, v := range set {
		if v == userId {
			r.blocked[uuid] = append(set[:i], set[i+1:]...)
			break
		}
	}
	return nil
}

func (r *stubLiveRepo) addToSet(sets map[string][]string, uuid, userId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.records[uuid]; !ok {
		return errStubNotFound
	}
	for _, v := range sets[uuid] {
		if v == userId {
			return nil
		}
	}
	sets[uuid] = append(sets[uuid], userId)
	return nil
}

func (r *stubLiveRepo) setOf(sets map[string][]string, uuid string) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(sets[uuid]))
	copy(out, sets[uuid])
	return out
}

func (r *stubLiveRepo) ApplyGiftCounters(uuid string, giftCount, coinTotal int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[uuid]; ok {
		rec.TotalGiftsReceived += giftCount
		rec.TotalCoinsEarned += coinTotal
	}
	return nil
}

func (r *stubLiveRepo) SetPkMode(uuid string, isPkMode int8) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rec, ok := r.records[uuid]; ok {
		rec.IsPkMode = isPkMode
	}
	return nil
}

func (r *stubLiveRepo) record(uuid string) *model.LiveRecord {
	rec, err := r.FindByUuid(uuid)
	if err != nil {
		return nil
	}
	return rec
}

// ---- 礼物账本桩 ----

type ledgerCall struct {
	SenderId   string
	ReceiverId string
	RoomId     string
	GiftCount  int64
	TotalCoin  int64
}

type stubLedger struct {
	mu    sync.Mutex
	calls []ledgerCall
	err   error
}

func (l *stubLedger) Transfer(senderId, receiverId, roomId string, giftCount, totalCoin int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, ledgerCall{
		SenderId:   senderId,
		ReceiverId: receiverId,
		RoomId:     roomId,
		GiftCount:  giftCount,
		TotalCoin:  totalCoin,
	})
	return l.err
}

func (l *stubLedger) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.calls)
}

func (l *stubLedger) lastCall() ledgerCall {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls[len(l.calls)-1]
}

// ---- 测试辅助 ----

type hubFixture struct {
	hub      *Hub
	userRepo *stubUserRepo
	topics   *stubTopicRepo
	messages *stubMessageRepo
	lives    *stubLiveRepo
	ledger   *stubLedger
}

// newHubFixture 构建一个不接缓存和 Kafka 的事件中心，落库任务同步执行
func newHubFixture(users ...*model.UserInfo) *hubFixture {
	userRepo := newStubUserRepo(users...)
	topics := newStubTopicRepo()
	messages := newStubMessageRepo()
	lives := newStubLiveRepo()
	ledger := &stubLedger{}
	hub := NewHub(HubConfig{
		UserRepo:    userRepo,
		TopicRepo:   topics,
		MessageRepo: messages,
		LiveRepo:    lives,
		GiftLedger:  ledger,
		Mode:        "channel",
	})
	return &hubFixture{
		hub:      hub,
		userRepo: userRepo,
		topics:   topics,
		messages: messages,
		lives:    lives,
		ledger:   ledger,
	}
}

// newTestClient 构造一条不带真实 WebSocket 的连接
func newTestClient(userId string) *Client {
	return &Client{
		Uuid:     "conn_" + userId,
		SendBack: make(chan []byte, 32),
	}
}

// connect 走 userOnline 流程把连接绑定到用户
func (f *hubFixture) connect(t *testing.T, userId string) *Client {
	t.Helper()
	client := newTestClient(userId)
	f.dispatch(t, client, EventUserOnline, map[string]any{"userId": userId})
	if client.UserId != userId {
		t.Fatalf("connect: client not bound to %s", userId)
	}
	return client
}

// dispatch 打包载荷并送入事件分发
func (f *hubFixture) dispatch(t *testing.T, client *Client, event string, payload any) {
	t.Helper()
	frame := MarshalEvent(event, payload)
	if frame == nil {
		t.Fatalf("dispatch: marshal %s failed", event)
	}
	f.hub.Dispatch(client, frame)
}

// nextFrame 取出连接收到的下一帧，没有则失败
func nextFrame(t *testing.T, c *Client) Envelope {
	t.Helper()
	select {
	case frame := <-c.SendBack:
		var env Envelope
		if err := json.Unmarshal(frame, &env); err != nil {
			t.Fatalf("nextFrame: bad envelope: %v", err)
		}
		return env
	default:
		t.Fatalf("nextFrame: no frame delivered")
	}
	return Envelope{}
}

// expectNoFrame 断言连接没有待收帧
func expectNoFrame(t *testing.T, c *Client) {
	t.Helper()
	select {
	case frame := <-c.SendBack:
		t.Fatalf("expectNoFrame: got %s", frame)
	default:
	}
}

// drain 清空连接的下行缓冲
func drain(c *Client) {
	for {
		select {
		case <-c.SendBack:
		default:
			return
		}
	}
}

// decodeData 把信封 Data 解析到目标结构
func decodeData(t *testing.T, env Envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decodeData: %v", err)
	}
}
