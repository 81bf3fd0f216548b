package request

// AgoraTokenRequest RTC token 请求
type AgoraTokenRequest struct {
	ChannelName string `json:"channelName" binding:"required"`
	Uid         int64  `json:"uid"`
	Role        int    `json:"role"`
}
