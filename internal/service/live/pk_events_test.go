package live

import (
	"testing"

	"muse_live_server/internal/dto/respond"
	"muse_live_server/internal/model"
)

func TestStartPKOfflineHostRejected(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U9"})
	c1 := f.connect(t, "U1")
	drain(c1)

	f.dispatch(t, c1, EventStartPK, map[string]any{
		"roomId": "live_U1_1", "host1Id": "U1", "host2Id": "U9",
	})

	env := nextFrame(t, c1)
	if env.Event != EventError {
		t.Fatalf("event = %s, want %s", env.Event, EventError)
	}
	if got := f.hub.Rooms().PkState("live_U1_1"); got != PkNormal {
		t.Fatalf("pk state after rejected invite = %d", got)
	}
}

func TestPkFullLifecycle(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U9"}, &model.UserInfo{Uuid: "U2"})
	f.hub.pkDuration = 180
	f.lives.Create(&model.LiveRecord{Uuid: "live_U1_1", HostUuid: "U1"})
	c1 := f.connect(t, "U1")
	c9 := f.connect(t, "U9")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c1)
	drain(c9)
	drain(c2)

	// 邀请：对方主播收到 pkInvite
	f.dispatch(t, c1, EventStartPK, map[string]any{
		"roomId": "live_U1_1", "host1Id": "U1", "host2Id": "U9",
		"host1Channel": "ch1", "host2Channel": "ch9",
	})
	env := nextFrame(t, c9)
	if env.Event != EventPkInvite {
		t.Fatalf("event = %s, want %s", env.Event, EventPkInvite)
	}
	var invite respond.PkInviteRespond
	decodeData(t, env, &invite)
	if invite.Host1Id != "U1" || invite.Host1Channel != "ch1" || invite.RoomId != "live_U1_1" {
		t.Fatalf("invite = %+v", invite)
	}
	if got := f.hub.Rooms().PkState("live_U1_1"); got != PkInvited {
		t.Fatalf("pk state = %d, want invited", got)
	}

	// 接受：房间广播 pkStarted，PK 标志落库
	f.dispatch(t, c9, EventAcceptPK, map[string]any{
		"roomId": "live_U1_1", "host1Id": "U1", "host2Id": "U9",
		"host2Channel": "ch9", "host2Token": "tk9",
	})
	for _, c := range []*Client{c1, c2} {
		env := nextFrame(t, c)
		if env.Event != EventPkStarted {
			t.Fatalf("event = %s, want %s", env.Event, EventPkStarted)
		}
		var started respond.PkStartedRespond
		decodeData(t, env, &started)
		if started.Host2Id != "U9" || started.Host2Channel != "ch9" || started.Host2Token != "tk9" {
			t.Fatalf("started = %+v", started)
		}
		if started.Duration != 180 {
			t.Fatalf("duration = %d, want configured 180", started.Duration)
		}
	}
	if got := f.hub.Rooms().PkState("live_U1_1"); got != PkActive {
		t.Fatalf("pk state = %d, want active", got)
	}
	if got := f.lives.record("live_U1_1").IsPkMode; got != 1 {
		t.Fatalf("pk mode not persisted, got %d", got)
	}

	// 结束：广播 pkEnded，状态复位
	f.dispatch(t, c1, EventEndPK, map[string]any{"roomId": "live_U1_1", "pkEndUserId": "U1"})
	for _, c := range []*Client{c1, c2} {
		env := nextFrame(t, c)
		if env.Event != EventPkEnded {
			t.Fatalf("event = %s, want %s", env.Event, EventPkEnded)
		}
		var ended respond.PkEndedRespond
		decodeData(t, env, &ended)
		if ended.PkEndUserId != "U1" {
			t.Fatalf("ended = %+v", ended)
		}
	}
	if got := f.hub.Rooms().PkState("live_U1_1"); got != PkNormal {
		t.Fatalf("pk state after end = %d", got)
	}
	if got := f.lives.record("live_U1_1").IsPkMode; got != 0 {
		t.Fatalf("pk mode not reset, got %d", got)
	}
}

func TestEndPKWithoutActivePkStillBroadcasts(t *testing.T) {
	f := newHubFixture(&model.UserInfo{Uuid: "U1"}, &model.UserInfo{Uuid: "U2"})
	c1 := f.connect(t, "U1")
	c2 := f.connect(t, "U2")
	f.dispatch(t, c1, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U1"})
	f.dispatch(t, c2, EventJoinLive, map[string]any{"roomId": "live_U1_1", "userId": "U2"})
	drain(c1)
	drain(c2)

	// 重复/迟到的 endPK 是安全空操作，但 pkEnded 仍广播供客户端复位界面
	f.dispatch(t, c1, EventEndPK, map[string]any{"roomId": "live_U1_1", "pkEndUserId": "U1"})
	for _, c := range []*Client{c1, c2} {
		if env := nextFrame(t, c); env.Event != EventPkEnded {
			t.Fatalf("event = %s, want %s", env.Event, EventPkEnded)
		}
	}
}
