package respond

import "time"

// StartLiveRespond 开播响应
type StartLiveRespond struct {
	RoomId      string    `json:"roomId"`
	HostUuid    string    `json:"hostUuid"`
	HostName    string    `json:"hostName"`
	HostImage   string    `json:"hostImage"`
	Channel     string    `json:"channel"`
	AgoraUid    int64     `json:"agoraUid"`
	Token       string    `json:"token"`
	LiveType    int8      `json:"liveType"`
	RoomName    string    `json:"roomName"`
	RoomWelcome string    `json:"roomWelcome"`
	RoomImage   string    `json:"roomImage"`
	IsPrivate   bool      `json:"isPrivate"`
	StartedAt   time.Time `json:"startedAt"`
}

// LiveUserRespond 直播中的用户条目
// Channel/Token 来自注册表会话，无会话的合成条目留空，客户端进房前需自行换取
type LiveUserRespond struct {
	Uuid        string `json:"uuid"`
	Nickname    string `json:"nickname"`
	Username    string `json:"username"`
	Avatar      string `json:"avatar"`
	RoomId      string `json:"roomId"`
	Channel     string `json:"channel"`
	Token       string `json:"token"`
	AgoraUid    int64  `json:"agoraUid"`
	LiveType    int8   `json:"liveType"`
	RoomName    string `json:"roomName"`
	RoomImage   string `json:"roomImage"`
	IsPrivate   bool   `json:"isPrivate"`
	ViewerCount int    `json:"viewerCount"`
	IsPkMode    bool   `json:"isPkMode"`
}
