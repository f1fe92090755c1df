package service

import (
	"context"
	"errors"

	"deeperweave/internal/api/dto"
	"deeperweave/internal/config"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"
	"deeperweave/pkg/utils"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUsernameExists     = errors.New("用户名已存在")
	ErrEmailExists        = errors.New("邮箱已被注册")
	ErrInvalidCredentials = errors.New("用户名或密码错误")
)

type AuthService struct {
	userRepo *repository.UserRepository
}

func NewAuthService(userRepo *repository.UserRepository) *AuthService {
	return &AuthService{userRepo: userRepo}
}

// Register 注册新用户
func (s *AuthService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.UserInfo, error) {
	exists, err := s.userRepo.ExistsByUsername(req.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUsernameExists
	}

	exists, err = s.userRepo.ExistsByEmail(req.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailExists
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		logger.Error("Hash password failed", zap.Error(err))
		return nil, err
	}

	user := &model.User{
		UserName:    req.Username,
		Email:       req.Email,
		Password:    hashed,
		DisplayName: req.DisplayName,
		UserRole:    "user",
	}
	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Create user failed",
			zap.String("username", req.Username), zap.Error(err))
		return nil, err
	}

	logger.Info("User registered",
		zap.Int64("user_id", user.ID), zap.String("username", user.UserName))
	return userToInfo(user, true), nil
}

// Login 用户登录，用户名或邮箱均可
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenData, error) {
	user, err := s.userRepo.GetByUsername(req.Username)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		user, err = s.userRepo.GetByEmail(req.Username)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrInvalidCredentials
			}
			return nil, err
		}
	}

	if !utils.VerifyPassword(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	token, err := utils.GenerateToken(user.ID)
	if err != nil {
		logger.Error("Generate token failed",
			zap.Int64("user_id", user.ID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenData{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int(config.GetJWT().ExpireDuration().Seconds()),
		User:      *userToInfo(user, true),
	}, nil
}

// GetMe 获取当前登录用户信息
func (s *AuthService) GetMe(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userToInfo(user, true), nil
}

// userToInfo 转换为对外的用户信息；includeEmail 仅对本人/管理员为 true
func userToInfo(user *model.User, includeEmail bool) *dto.UserInfo {
	info := &dto.UserInfo{
		ID:            user.ID,
		Username:      user.UserName,
		DisplayName:   user.DisplayName,
		Bio:           user.Bio,
		Avatar:        user.Avatar,
		FollowCount:   user.FollowCount,
		FollowerCount: user.FollowerCount,
		ReviewCount:   user.ReviewCount,
		Onboarded:     user.Onboarded,
		UserRole:      user.UserRole,
	}
	if includeEmail {
		info.Email = user.Email
	}
	return info
}
