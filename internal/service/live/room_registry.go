// room_registry.go 房间注册表：房间会话状态和广播组
package live

import (
	"sync"
	"time"

	"muse_live_server/pkg/errorx"
)

// PK 状态
const (
	PkNormal  = 0 // 无 PK
	PkInvited = 1 // 已发出邀请，等待对方接受
	PkActive  = 2 // PK 进行中
)

// SeatSlot 语音房麦位
type SeatSlot struct {
	Position int    `json:"position"`
	UserId   string `json:"userId"`
	Name     string `json:"name"`
	AgoraUid int    `json:"agoraUid"`
	Image    string `json:"image"`
	Lock     bool   `json:"lock"`
	Mute     bool   `json:"mute"`
	Speaking bool   `json:"speaking"`
}

// RoomSession 一个直播间的运行时状态
// 字段由 RoomRegistry 持锁访问，外部不要直接改
type RoomSession struct {
	Id          string
	HostUuid    string
	HostName    string
	HostImage   string
	Kind        int8 // model.LiveTypeVideo / LiveTypeAudio / LiveTypePk，按需补齐
	Channel     string
	Token       string
	AgoraUid    int
	RoomName    string
	RoomWelcome string
	RoomImage   string
	IsPrivate   bool
	PrivateCode string
	StartedAt   time.Time

	viewers   int
	members   map[*Client]struct{}
	seats     []SeatSlot
	requested map[string]struct{}
	blocked   map[string]struct{}

	pkState          int
	pkPartnerId      string
	pkPartnerChannel string

	giftsReceived int64
	coinsEarned   int64

	// managed 为 true 表示由 /live/start 创建
	// 观众加入临时 id（如语音房合成 id）时自动建的会话为 false，清空后即删除
	managed bool
}

func newRoomSession(id string) *RoomSession {
	return &RoomSession{
		Id:        id,
		StartedAt: time.Now(),
		members:   make(map[*Client]struct{}),
		requested: make(map[string]struct{}),
		blocked:   make(map[string]struct{}),
	}
}

// RoomRegistry 房间注册表
type RoomRegistry struct {
	mu    sync.Mutex
	rooms map[string]*RoomSession
}

// NewRoomRegistry 创建房间注册表
func NewRoomRegistry() *RoomRegistry {
	return &RoomRegistry{rooms: make(map[string]*RoomSession)}
}

// Create 登记一个受管房间，同 id 已存在时复用原会话
func (r *RoomRegistry) Create(session *RoomSession) *RoomSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.rooms[session.Id]; ok {
		return existing
	}
	if session.members == nil {
		session.members = make(map[*Client]struct{})
	}
	if session.requested == nil {
		session.requested = make(map[string]struct{})
	}
	if session.blocked == nil {
		session.blocked = make(map[string]struct{})
	}
	session.managed = true
	r.rooms[session.Id] = session
	return session
}

// Get 查找房间，不存在返回 nil
func (r *RoomRegistry) Get(roomId string) *RoomSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rooms[roomId]
}

// Remove 删除房间，返回被删除的会话
func (r *RoomRegistry) Remove(roomId string) *RoomSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	session := r.rooms[roomId]
	delete(r.rooms, roomId)
	return session
}

// Join 把连接加入房间广播组并增加观看计数
// 房间未登记时自动创建非受管会话，对齐临时房间 id 的行为
func (r *RoomRegistry) Join(roomId string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.rooms[roomId]
	if !ok {
		session = newRoomSession(roomId)
		r.rooms[roomId] = session
	}
	if _, joined := session.members[client]; joined {
		return
	}
	session.members[client] = struct{}{}
	session.viewers++
}

// Leave 把连接移出房间广播组并减少观看计数，计数不降到负数
func (r *RoomRegistry) Leave(roomId string, client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.rooms[roomId]
	if !ok {
		return
	}
	if _, joined := session.members[client]; !joined {
		return
	}
	delete(session.members, client)
	if session.viewers > 0 {
		session.viewers--
	}
	if !session.managed && len(session.members) == 0 {
		delete(r.rooms, roomId)
	}
}

// RemoveClient 从所有房间移出该连接（断线清理），返回受影响的房间 id
// 只调整成员关系和计数，不广播离开事件
func (r *RoomRegistry) RemoveClient(client *Client) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	var affected []string
	for id, session := range r.rooms {
		if _, joined := session.members[client]; !joined {
			continue
		}
		delete(session.members, client)
		if session.viewers > 0 {
			session.viewers--
		}
		affected = append(affected, id)
		if !session.managed && len(session.members) == 0 {
			delete(r.rooms, id)
		}
	}
	return affected
}

// Broadcast 向房间内全部成员投递一帧，房间不存在时静默忽略
func (r *RoomRegistry) Broadcast(roomId string, frame []byte) {
	if frame == nil {
		return
	}
	r.mu.Lock()
	session, ok := r.rooms[roomId]
	if !ok {
		r.mu.Unlock()
		return
	}
	members := make([]*Client, 0, len(session.members))
	for c := range session.members {
		members = append(members, c)
	}
	r.mu.Unlock()

	// 投递放在锁外，Deliver 内部有自己的非阻塞保护
	for _, c := range members {
		c.Deliver(frame)
	}
}

// ViewerCount 当前观看计数，房间不存在返回 0
func (r *RoomRegistry) ViewerCount(roomId string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		return session.viewers
	}
	return 0
}

// IsBlocked 用户是否被该房间拉黑
func (r *RoomRegistry) IsBlocked(roomId, userId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		_, blocked := session.blocked[userId]
		return blocked
	}
	return false
}

// Block 拉黑用户
func (r *RoomRegistry) Block(roomId, userId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		session.blocked[userId] = struct{}{}
	}
}

// Unblock 解除拉黑
func (r *RoomRegistry) Unblock(roomId, userId string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		delete(session.blocked, userId)
	}
}

// AddSeatRequest 登记上麦申请，重复申请返回 false
func (r *RoomRegistry) AddSeatRequest(roomId, userId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.rooms[roomId]
	if !ok {
		return false
	}
	if _, exists := session.requested[userId]; exists {
		return false
	}
	session.requested[userId] = struct{}{}
	return true
}

// EnsureSeats 保证房间至少有 n 个麦位
func (r *RoomRegistry) EnsureSeats(roomId string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.rooms[roomId]
	if !ok {
		return
	}
	for len(session.seats) < n {
		session.seats = append(session.seats, SeatSlot{Position: len(session.seats)})
	}
}

// ApplySeatUpdate 校验并记录一次麦位更新
// 仅在 live.validateSeats 开启时由事件中心调用
func (r *RoomRegistry) ApplySeatUpdate(roomId string, slot SeatSlot) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.rooms[roomId]
	if !ok {
		return errorx.Newf(errorx.CodeRoomNotLive, "房间 %s 不存在", roomId)
	}
	if slot.Position < 0 || slot.Position >= len(session.seats) {
		return errorx.Newf(errorx.CodeInvalidParam, "麦位序号 %d 越界", slot.Position)
	}
	if slot.UserId != "" {
		for i := range session.seats {
			if i != slot.Position && session.seats[i].UserId == slot.UserId {
				return errorx.Newf(errorx.CodeInvalidParam, "用户 %s 已在麦位 %d", slot.UserId, i)
			}
		}
	}
	session.seats[slot.Position] = slot
	return nil
}

// Seats 麦位快照
func (r *RoomRegistry) Seats(roomId string) []SeatSlot {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.rooms[roomId]
	if !ok {
		return nil
	}
	out := make([]SeatSlot, len(session.seats))
	copy(out, session.seats)
	return out
}

// MarkPkInvited 记录已向 partnerId 发出 PK 邀请
func (r *RoomRegistry) MarkPkInvited(roomId, partnerId, partnerChannel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		session.pkState = PkInvited
		session.pkPartnerId = partnerId
		session.pkPartnerChannel = partnerChannel
	}
}

// MarkPkActive 标记 PK 进行中
func (r *RoomRegistry) MarkPkActive(roomId, partnerId, partnerChannel string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		session.pkState = PkActive
		session.pkPartnerId = partnerId
		session.pkPartnerChannel = partnerChannel
	}
}

// ClearPk 清除 PK 状态，返回之前是否处于 PK 中（邀请或进行中）
// 未处于 PK 时调用是安全的空操作
func (r *RoomRegistry) ClearPk(roomId string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.rooms[roomId]
	if !ok {
		return false
	}
	was := session.pkState != PkNormal
	session.pkState = PkNormal
	session.pkPartnerId = ""
	session.pkPartnerChannel = ""
	return was
}

// PkState 当前 PK 状态
func (r *RoomRegistry) PkState(roomId string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		return session.pkState
	}
	return PkNormal
}

// AddGiftCounters 累加房间礼物统计
func (r *RoomRegistry) AddGiftCounters(roomId string, giftCount, coinAmount int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		session.giftsReceived += giftCount
		session.coinsEarned += coinAmount
	}
}

// GiftCounters 房间礼物统计快照
func (r *RoomRegistry) GiftCounters(roomId string) (gifts, coins int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if session, ok := r.rooms[roomId]; ok {
		return session.giftsReceived, session.coinsEarned
	}
	return 0, 0
}

// Snapshot 所有受管房间的快照（浅拷贝基础字段）
func (r *RoomRegistry) Snapshot() []RoomSession {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]RoomSession, 0, len(r.rooms))
	for _, session := range r.rooms {
		if !session.managed {
			continue
		}
		copied := *session
		copied.members = nil
		out = append(out, copied)
	}
	return out
}
