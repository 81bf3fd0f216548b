// Package live 实现直播协调核心
// conn.go 管理 WebSocket 连接的生命周期和读写协程
package live

import (
	"net/http"

	"muse_live_server/pkg/constants"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client 一条 WebSocket 连接
// UserId 在收到 userOnline 事件前为空
type Client struct {
	Conn     *websocket.Conn
	Uuid     string // 连接 id，和用户 id 无关
	UserId   string
	SendBack chan []byte // 下行帧缓冲
	hub      *Hub
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  2048,
	WriteBufferSize: 2048,
	// 允许跨域连接，App 端没有固定 Origin
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Read 读取上行帧并投递给事件中心
func (c *Client) Read() {
	zap.L().Info("ws read goroutine start", zap.String("conn", c.Uuid))
	defer c.hub.SendClientToLogout(c)
	for {
		_, frame, err := c.Conn.ReadMessage()
		if err != nil {
			zap.L().Info("ws read closed", zap.String("conn", c.Uuid), zap.Error(err))
			return
		}
		c.hub.Publish(c, frame)
	}
}

// Write 从 SendBack 通道取下行帧写入 WebSocket
func (c *Client) Write() {
	zap.L().Info("ws write goroutine start", zap.String("conn", c.Uuid))
	for frame := range c.SendBack {
		if err := c.Conn.WriteMessage(websocket.TextMessage, frame); err != nil {
			zap.L().Error("ws write failed", zap.String("conn", c.Uuid), zap.Error(err))
			return
		}
	}
}

// Deliver 投递一帧给该连接，缓冲满则丢弃慢客户端的帧
func (c *Client) Deliver(frame []byte) {
	if frame == nil {
		return
	}
	select {
	case c.SendBack <- frame:
	default:
		zap.L().Warn("client send buffer full, dropping frame",
			zap.String("conn", c.Uuid), zap.String("user", c.UserId))
	}
}

// NewClientInit 升级 HTTP 连接为 WebSocket 并启动读写协程
func NewClientInit(c *gin.Context, hub *Hub) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Error("ws upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		Conn:     conn,
		Uuid:     uuid.NewString(),
		SendBack: make(chan []byte, constants.CLIENT_SEND_BUFFER),
		hub:      hub,
	}
	hub.SendClientToLogin(client)
	go client.Read()
	go client.Write()
	zap.L().Info("ws连接成功", zap.String("conn", client.Uuid))
}
