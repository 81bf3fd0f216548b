// Package user 提供账号业务：注册、登录、令牌刷新与资料维护
package user

import (
	"context"
	"fmt"
	"time"

	"muse_live_server/internal/dao/mysql/repository"
	myredis "muse_live_server/internal/dao/redis"
	"muse_live_server/internal/dto/request"
	"muse_live_server/internal/dto/respond"
	"muse_live_server/internal/model"
	"muse_live_server/pkg/constants"
	"muse_live_server/pkg/errorx"
	"muse_live_server/pkg/util/jwt"
	"muse_live_server/pkg/util/random"

	"go.uber.org/zap"
)

var ctx = context.Background()

// refreshTokenKey Refresh Token 的 Redis 键
// 只保留最新签发的 tokenID，旧设备的 Refresh Token 刷新时失效（单点互踢）
func refreshTokenKey(uuid string) string {
	return "user_token:" + uuid
}

// Service 账号服务
type Service struct {
	userRepo repository.UserRepository
	cache    myredis.CacheService
}

// NewUserService 创建账号服务
func NewUserService(userRepo repository.UserRepository, cache myredis.CacheService) *Service {
	return &Service{
		userRepo: userRepo,
		cache:    cache,
	}
}

// Register 用户注册，成功后直接返回登录态
func (s *Service) Register(req request.RegisterRequest) (*respond.LoginRespond, error) {
	_, err := s.userRepo.FindByUsername(req.Username)
	if err == nil {
		return nil, errorx.New(errorx.CodeUserExist, "用户名已被占用")
	}
	if !errorx.IsNotFound(err) {
		return nil, err
	}

	user := model.UserInfo{
		Uuid:        fmt.Sprintf("U%s", random.GetNowAndLenRandomString(13)),
		Username:    req.Username,
		Nickname:    req.Nickname,
		Avatar:      req.Avatar,
		RawPassword: req.Password,
	}
	if user.Nickname == "" {
		user.Nickname = req.Username
	}
	if err := s.userRepo.Create(&user); err != nil {
		return nil, err
	}
	return s.issueLoginRespond(&user)
}

// Login 密码登录
func (s *Service) Login(req request.LoginRequest) (*respond.LoginRespond, error) {
	user, err := s.userRepo.FindByUsername(req.Username)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}
	if !user.CheckPassword(req.Password) {
		return nil, errorx.New(errorx.CodeInvalidPassword, "用户名或密码错误")
	}
	if user.Status != 0 {
		return nil, errorx.New(errorx.CodeUnauthorized, "账号已被禁用")
	}
	return s.issueLoginRespond(user)
}

// RefreshToken 用 Refresh Token 换取新的令牌对
// 校验 tokenID 与 Redis 中记录一致后轮换，同一 Refresh Token 不能复用
func (s *Service) RefreshToken(refreshToken string) (*respond.LoginRespond, error) {
	claims, err := jwt.ParseToken(refreshToken)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "refresh token 无效")
	}
	if claims.Subject != "refresh_token" || claims.TokenID == "" {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token 无效")
	}

	storedTokenID, err := s.cache.GetOrError(ctx, refreshTokenKey(claims.UserID))
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeUnauthorized, "refresh token 已失效")
	}
	if storedTokenID != claims.TokenID {
		return nil, errorx.New(errorx.CodeUnauthorized, "refresh token 已在其他设备刷新")
	}

	user, err := s.userRepo.FindByUuid(claims.UserID)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}
	if user.Status != 0 {
		return nil, errorx.New(errorx.CodeUnauthorized, "账号已被禁用")
	}
	return s.issueLoginRespond(user)
}

// issueLoginRespond 签发令牌对并登记 Refresh Token 的 tokenID
func (s *Service) issueLoginRespond(user *model.UserInfo) (*respond.LoginRespond, error) {
	accessToken, err := jwt.GenerateAccessToken(user.Uuid)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "签发 access token 失败")
	}
	refreshToken, tokenID, err := jwt.GenerateRefreshToken(user.Uuid)
	if err != nil {
		return nil, errorx.Wrap(err, errorx.CodeServerBusy, "签发 refresh token 失败")
	}

	ttl := time.Duration(constants.REFRESH_TOKEN_EXPIRY_HOURS) * time.Hour
	if err := s.cache.Set(ctx, refreshTokenKey(user.Uuid), tokenID, ttl); err != nil {
		// 登记失败只影响后续刷新，不拦截本次登录
		zap.L().Error("登记 refresh token 失败", zap.String("uuid", user.Uuid), zap.Error(err))
	}

	return &respond.LoginRespond{
		Uuid:         user.Uuid,
		Nickname:     user.Nickname,
		Username:     user.Username,
		Avatar:       user.Avatar,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// UpdateUserInfo 更新用户资料，空字段不覆盖
func (s *Service) UpdateUserInfo(req request.UpdateUserInfoRequest) error {
	user, err := s.userRepo.FindByUuid(req.Uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return err
	}
	if req.Nickname != "" {
		user.Nickname = req.Nickname
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Bio != "" {
		user.Bio = req.Bio
	}
	return s.userRepo.UpdateUserInfo(user)
}

// GetUserInfo 获取用户资料
func (s *Service) GetUserInfo(uuid string) (*respond.GetUserInfoRespond, error) {
	user, err := s.userRepo.FindByUuid(uuid)
	if err != nil {
		if errorx.IsNotFound(err) {
			return nil, errorx.New(errorx.CodeUserNotExist, "用户不存在")
		}
		return nil, err
	}
	return &respond.GetUserInfoRespond{
		Uuid:          user.Uuid,
		Nickname:      user.Nickname,
		Username:      user.Username,
		Avatar:        user.Avatar,
		Bio:           user.Bio,
		Coin:          user.Coin,
		SpentCoins:    user.SpentCoins,
		ReceivedCoins: user.ReceivedCoins,
		ReceivedGifts: user.ReceivedGifts,
		IsHost:        user.IsHost == 1,
		IsLive:        user.IsLive == 1,
		LiveRoomId:    user.LiveRoomId,
		IsOnline:      user.IsOnline == 1,
	}, nil
}
