package live

import (
	"encoding/json"
	"testing"

	"muse_live_server/internal/dto/respond"
	"muse_live_server/internal/model"
)

func TestJoinLiveBroadcastIncludesJoiner(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	f.lives.Create(&model.LiveRecord{Uuid: "live_U1_1", HostUuid: "U1"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	drain(c1)
	drain(c2)

	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})

	// 先入组再广播，加入者自己也收到 viewerJoined
	for _, c := range []*Client{c1, c2} {
		env := nextFrame(t, c)
		if env.Event != EventViewerJoined {
			t.Fatalf("event = %s, want %s", env.Event, EventViewerJoined)
		}
		var joined respond.ViewerJoinedRespond
		decodeData(t, env, &joined)
		if joined.UserId != "U2" || joined.RoomId != "live_U1_1" {
			t.Fatalf("joined = %+v", joined)
		}
	}

	if got := f.hub.Rooms().ViewerCount("live_U1_1"); got != 2 {
		t.Fatalf("viewer count = %d, want 2", got)
	}
	// 规范房间 id 的观看计数和观众集合落库
	if got := f.lives.record("live_U1_1").View; got != 2 {
		t.Fatalf("persisted view = %d, want 2", got)
	}
	if got := f.lives.setOf(f.lives.viewers, "live_U1_1"); len(got) != 2 {
		t.Fatalf("persisted viewers = %v, want U1 and U2", got)
	}

	// 重复进房不重复记录观众
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	if got := f.lives.setOf(f.lives.viewers, "live_U1_1"); len(got) != 2 {
		t.Fatalf("viewers after rejoin = %v, want 2 entries", got)
	}
}

func TestLeaveLiveBroadcastExcludesLeaver(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	f.lives.Create(&model.LiveRecord{Uuid: "live_U1_1", View: 2})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c1)
	drain(c2)

	f.dispatch(t, c2, EventLeaveLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})

	// 先出组再广播，离开者自己收不到 viewerLeft
	expectNoFrame(t, c2)
	env := nextFrame(t, c1)
	if env.Event != EventViewerLeft {
		t.Fatalf("event = %s, want %s", env.Event, EventViewerLeft)
	}
	var left respond.ViewerLeftRespond
	decodeData(t, env, &left)
	if left.UserId != "U2" {
		t.Fatalf("left = %+v", left)
	}

	if got := f.hub.Rooms().ViewerCount("live_U1_1"); got != 1 {
		t.Fatalf("viewer count = %d, want 1", got)
	}
}

func TestSyntheticRoomIdSkipsPersistence(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"})
	c1 := f.connect(t, "U1")
	drain(c1)

	// 语音房合成 id 不落库，但内存会话照常工作
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "audio_room_7", "userId": "U1"})
	drain(c1)
	if got := f.hub.Rooms().ViewerCount("audio_room_7"); got != 1 {
		t.Fatalf("viewer count = %d, want 1", got)
	}
	if rec := f.lives.record("audio_room_7"); rec != nil {
		t.Fatalf("synthetic room was persisted")
	}
	if got := f.lives.setOf(f.lives.viewers, "audio_room_7"); len(got) != 0 {
		t.Fatalf("synthetic room viewers persisted: %v", got)
	}
}

func TestSendCommentBroadcast(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c1)
	drain(c2)

	f.dispatch(t, c2, EventSendComment, map[string]any{
		"roomId": "live_U1_1", "commentText": "nice", "userId": "U2", "senderName": "bob",
	})

	// 弹幕广播给房间全部成员，发送者也收到
	for _, c := range []*Client{c1, c2} {
		env := nextFrame(t, c)
		if env.Event != EventReceiveComment {
			t.Fatalf("event = %s, want %s", env.Event, EventReceiveComment)
		}
		var comment respond.ReceiveCommentRespond
		decodeData(t, env, &comment)
		if comment.CommentText != "nice" || comment.SenderName != "bob" {
			t.Fatalf("comment = %+v", comment)
		}
		if comment.Date.IsZero() {
			t.Fatalf("comment date not stamped")
		}
	}
}

func TestSendGiftTransfersAndBroadcasts(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c1)
	drain(c2)

	f.dispatch(t, c2, EventSendGift, map[string]any{
		"roomId":         "live_U1_1",
		"giftId":         "g1",
		"giftCount":      2,
		"giftCoin":       100,
		"senderUserId":   "U2",
		"receiverUserId": "U1",
		"senderName":     "bob",
	})

	if f.ledger.callCount() != 1 {
		t.Fatalf("ledger calls = %d, want 1", f.ledger.callCount())
	}
	call := f.ledger.lastCall()
	if call.TotalCoin != 200 || call.GiftCount != 2 {
		t.Fatalf("transfer = %+v, want 2 gifts for 200 coins", call)
	}
	if call.SenderId != "U2" || call.ReceiverId != "U1" {
		t.Fatalf("transfer parties = %+v", call)
	}

	gifts, coins := f.hub.Rooms().GiftCounters("live_U1_1")
	if gifts != 2 || coins != 200 {
		t.Fatalf("room counters = (%d, %d)", gifts, coins)
	}

	for _, c := range []*Client{c1, c2} {
		env := nextFrame(t, c)
		if env.Event != EventReceiveGift {
			t.Fatalf("event = %s, want %s", env.Event, EventReceiveGift)
		}
		var gift respond.ReceiveGiftRespond
		decodeData(t, env, &gift)
		if gift.GiftCount != 2 || gift.GiftCoin != 100 || gift.SenderUserId != "U2" {
			t.Fatalf("gift = %+v", gift)
		}
	}
}

func TestSendGiftZeroCountDefaultsToOne(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	c2 := f.connect(t, "U2")
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c2)

	f.dispatch(t, c2, EventSendGift, map[string]any{
		"roomId":         "live_U1_1",
		"giftCoin":       50,
		"senderUserId":   "U2",
		"receiverUserId": "U1",
	})

	call := f.ledger.lastCall()
	if call.GiftCount != 1 || call.TotalCoin != 50 {
		t.Fatalf("transfer = %+v, want count 1 and 50 coins", call)
	}
}

func TestSendGiftBroadcastSurvivesLedgerFailure(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	f.ledger.err = errStubNotFound
	c2 := f.connect(t, "U2")
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c2)

	f.dispatch(t, c2, EventSendGift, map[string]any{
		"roomId":         "live_U1_1",
		"giftCoin":       100,
		"senderUserId":   "U2",
		"receiverUserId": "U1",
	})

	// 划转失败只记日志，礼物动画照常广播
	env := nextFrame(t, c2)
	if env.Event != EventReceiveGift {
		t.Fatalf("event = %s, want %s", env.Event, EventReceiveGift)
	}
}

func TestSendGiftWithoutPartiesSkipsTransfer(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U2"})
	c2 := f.connect(t, "U2")
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c2)

	f.dispatch(t, c2, EventSendGift, map[string]any{"roomId": "live_U1_1", "giftId": "g1"})

	if f.ledger.callCount() != 0 {
		t.Fatalf("transfer attempted without sender/receiver")
	}
	if env := nextFrame(t, c2); env.Event != EventReceiveGift {
		t.Fatalf("event = %s, want %s", env.Event, EventReceiveGift)
	}
}

func TestNegativeGiftCountRejected(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U2"})
	c2 := f.connect(t, "U2")
	drain(c2)

	f.dispatch(t, c2, EventSendGift, map[string]any{"roomId": "live_U1_1", "giftCount": -1})
	if env := nextFrame(t, c2); env.Event != EventError {
		t.Fatalf("event = %s, want %s", env.Event, EventError)
	}
}

func TestUserBlockNotifiesTarget(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	f.lives.Create(&model.LiveRecord{Uuid: "live_U1_1", HostUuid: "U1"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	drain(c1)
	drain(c2)

	f.dispatch(t, c1, EventUserBlock, map[string]any{"roomId": "live_U1_1", "blockedUserId": "U2"})

	env := nextFrame(t, c2)
	if env.Event != EventYouAreBlocked {
		t.Fatalf("event = %s, want %s", env.Event, EventYouAreBlocked)
	}
	var blocked respond.YouAreBlockedRespond
	decodeData(t, env, &blocked)
	if blocked.RoomId != "live_U1_1" {
		t.Fatalf("blocked = %+v", blocked)
	}
	if !f.hub.Rooms().IsBlocked("live_U1_1", "U2") {
		t.Fatalf("block not recorded")
	}
	if got := f.lives.setOf(f.lives.blocked, "live_U1_1"); len(got) != 1 || got[0] != "U2" {
		t.Fatalf("persisted blocked set = %v, want [U2]", got)
	}

	// 解除拉黑静默执行
	f.dispatch(t, c1, EventUserUnblock, map[string]any{"roomId": "live_U1_1", "unblockedUserId": "U2"})
	expectNoFrame(t, c2)
	if f.hub.Rooms().IsBlocked("live_U1_1", "U2") {
		t.Fatalf("block not lifted")
	}
	if got := f.lives.setOf(f.lives.blocked, "live_U1_1"); len(got) != 0 {
		t.Fatalf("persisted blocked set not cleared: %v", got)
	}
}

func TestSeatUpdateRelaysRawPayload(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "audio_room_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "audio_room_1", "userId": "U2"})
	drain(c1)
	drain(c2)

	// 载荷带上协议之外的字段，透传时必须原样保留
	raw := json.RawMessage(`{"roomId":"audio_room_1","position":3,"mute":true,"userId":"U2","customFlag":7}`)
	frame, _ := json.Marshal(Envelope{Event: EventSeatUpdate, Data: raw})
	f.hub.Dispatch(c1, frame)

	env := nextFrame(t, c2)
	if env.Event != EventSeatUpdate {
		t.Fatalf("event = %s, want %s", env.Event, EventSeatUpdate)
	}
	var relayed map[string]any
	decodeData(t, env, &relayed)
	if relayed["customFlag"] != float64(7) {
		t.Fatalf("custom field dropped in relay: %v", relayed)
	}
	if relayed["position"] != float64(3) || relayed["mute"] != true {
		t.Fatalf("relayed payload = %v", relayed)
	}
}

func TestSeatUpdateValidationRejectsOutOfRange(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"})
	f.hub.validateSeats = true
	c1 := f.connect(t, "U1")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "audio_room_1", "userId": "U1"})
	drain(c1)

	f.dispatch(t, c1, EventSeatUpdate, map[string]any{"roomId": "audio_room_1", "position": 99})

	env := nextFrame(t, c1)
	if env.Event != EventError {
		t.Fatalf("event = %s, want %s", env.Event, EventError)
	}
}

func TestSeatRequestBroadcastOnce(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "audio_room_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "audio_room_1", "userId": "U2"})
	drain(c1)
	drain(c2)

	f.dispatch(t, c2, EventSeatRequest, map[string]any{"roomId": "audio_room_1", "userId": "U2"})
	env := nextFrame(t, c1)
	if env.Event != EventSeatRequest {
		t.Fatalf("event = %s, want %s", env.Event, EventSeatRequest)
	}
	drain(c2)

	// 重复申请不再广播
	f.dispatch(t, c2, EventSeatRequest, map[string]any{"roomId": "audio_room_1", "userId": "U2"})
	expectNoFrame(t, c1)
	expectNoFrame(t, c2)
	// 合成房间 id 不落库
	if got := f.lives.setOf(f.lives.requested, "audio_room_1"); len(got) != 0 {
		t.Fatalf("synthetic room requested set persisted: %v", got)
	}
}

func TestSeatRequestPersistsForCanonicalRoom(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	f.lives.Create(&model.LiveRecord{Uuid: "live_U1_1", HostUuid: "U1"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c1)
	drain(c2)

	f.dispatch(t, c2, EventSeatRequest, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c1)
	drain(c2)
	// 重复申请去抖后集合只记一次
	f.dispatch(t, c2, EventSeatRequest, map[string]any{"roomId": "live_U1_1", "userId": "U2"})

	if got := f.lives.setOf(f.lives.requested, "live_U1_1"); len(got) != 1 || got[0] != "U2" {
		t.Fatalf("persisted requested set = %v, want [U2]", got)
	}
}
