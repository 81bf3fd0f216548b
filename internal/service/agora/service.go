// Package agora 提供 RTC token 的生成
// 凭证未配置时返回开发占位 token，不阻断联调
package agora

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"time"

	"muse_live_server/internal/config"
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
)

// defaultTokenExpiry token 默认有效期（秒）
const defaultTokenExpiry = 3600

// Service RTC token 服务
type Service struct {
	cfg config.AgoraConfig
}

// NewAgoraService 创建 RTC token 服务
func NewAgoraService(cfg config.AgoraConfig) *Service {
	return &Service{cfg: cfg}
}

// devMode 凭证缺失或为模板占位值时视为开发模式
func (s *Service) devMode() bool {
	return s.cfg.AppId == "" || s.cfg.AppCertificate == "" || s.cfg.AppId == "your_agora_app_id"
}

// BuildToken 生成 RTC token
// 正式凭证下对 appId+channel+uid+过期时间做 HMAC-SHA256，
// token 为 base64("appId:hmac十六进制:过期时间")
func (s *Service) BuildToken(req request.AgoraTokenRequest) (*respond.AgoraTokenRespond, error) {
	if s.devMode() {
		appId := s.cfg.AppId
		if appId == "" {
			appId = "dev_app_id"
		}
		return &respond.AgoraTokenRespond{
			Token:   fmt.Sprintf("dev_token_%d", time.Now().UnixMilli()),
			AppId:   appId,
			Channel: req.ChannelName,
			Uid:     req.Uid,
			DevMode: true,
		}, nil
	}

	expiry := s.cfg.TokenExpiry
	if expiry <= 0 {
		expiry = defaultTokenExpiry
	}
	expiredTs := time.Now().Unix() + int64(expiry)

	message := fmt.Sprintf("%s%s%d%d", s.cfg.AppId, req.ChannelName, req.Uid, expiredTs)
	mac := hmac.New(sha256.New, []byte(s.cfg.AppCertificate))
	mac.Write([]byte(message))
	digest := hex.EncodeToString(mac.Sum(nil))

	raw := fmt.Sprintf("%s:%s:%d", s.cfg.AppId, digest, expiredTs)
	return &respond.AgoraTokenRespond{
		Token:   base64.StdEncoding.EncodeToString([]byte(raw)),
		AppId:   s.cfg.AppId,
		Channel: req.ChannelName,
		Uid:     req.Uid,
		Expiry:  expiredTs,
	}, nil
}
