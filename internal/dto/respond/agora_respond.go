package respond

// AgoraTokenRespond RTC token 响应
type AgoraTokenRespond struct {
	Token   string `json:"token"`
	AppId   string `json:"appId"`
	Channel string `json:"channel"`
	Uid     int64  `json:"uid"`
	Expiry  int64  `json:"expiry"` // token 过期的 unix 秒
	DevMode bool   `json:"devMode,omitempty"`
}
