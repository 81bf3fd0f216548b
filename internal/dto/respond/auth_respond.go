package respond

// LoginRespond 登录/注册响应
type LoginRespond struct {
	Uuid         string `json:"uuid"`
	Nickname     string `json:"nickname"`
	Username     string `json:"username"`
	Avatar       string `json:"avatar"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// GetUserInfoRespond 用户资料响应
type GetUserInfoRespond struct {
	Uuid          string `json:"uuid"`
	Nickname      string `json:"nickname"`
	Username      string `json:"username"`
	Avatar        string `json:"avatar"`
	Bio           string `json:"bio"`
	Coin          int64  `json:"coin"`
	SpentCoins    int64  `json:"spentCoins"`
	ReceivedCoins int64  `json:"receivedCoins"`
	ReceivedGifts int64  `json:"receivedGifts"`
	IsHost        bool   `json:"isHost"`
	IsLive        bool   `json:"isLive"`
	LiveRoomId    string `json:"liveRoomId"`
	IsOnline      bool   `json:"isOnline"`
}
