package constants

const (
	CHANNEL_SIZE               = 100     // 事件通道大小
	CLIENT_SEND_BUFFER         = 256     // 单连接下行缓冲区大小
	REDIS_TIMEOUT              = 1       // redis 缓存过期时间（分钟）
	REFRESH_TOKEN_EXPIRY_HOURS = 168     // Refresh Token 有效期（小时），168小时 = 7天
	LIVE_ROOM_PREFIX           = "live_" // 直播间 ID 前缀（持久化房间统一使用该前缀）
	DEFAULT_AUDIO_SEAT_NUM     = 8       // 语音房默认麦位数
)
