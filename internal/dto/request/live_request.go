package request

// StartLiveRequest 开播请求
type StartLiveRequest struct {
	OwnerId     string `json:"ownerId" binding:"required"`
	LiveType    int8   `json:"liveType"` // 1.视频 2.语音房，缺省按视频
	Channel     string `json:"channel"`
	AgoraUid    int64  `json:"agoraUid"`
	RoomName    string `json:"roomName"`
	RoomWelcome string `json:"roomWelcome"`
	RoomImage   string `json:"roomImage"`
	IsPrivate   bool   `json:"isPrivate"`
	PrivateCode string `json:"privateCode"`
}

// StopLiveRequest 关播请求
type StopLiveRequest struct {
	OwnerId string `json:"ownerId" binding:"required"`
	RoomId  string `json:"roomId"`
}
