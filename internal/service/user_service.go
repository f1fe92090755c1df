package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"

	"deeperweave/internal/api/dto"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound   = errors.New("用户不存在")
	ErrAvatarTooLarge = errors.New("头像大小不能超过 5MB")
	ErrAvatarBadType  = errors.New("头像格式不支持，仅支持图片")
)

// AvatarUpload 待上传的头像文件
type AvatarUpload struct {
	Reader      io.Reader
	Size        int64
	ContentType string
	Filename    string
}

type UserService struct {
	userRepo *repository.UserRepository
	storage  ObjectStorage
}

func NewUserService(userRepo *repository.UserRepository, storage ObjectStorage) *UserService {
	return &UserService{userRepo: userRepo, storage: storage}
}

// GetProfile 获取用户公开资料
func (s *UserService) GetProfile(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userToInfo(user, false), nil
}

// GetProfileByUsername 按用户名获取用户公开资料
func (s *UserService) GetProfileByUsername(ctx context.Context, username string) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByUsername(username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userToInfo(user, false), nil
}

// UpdateProfile 更新个人资料，头像可选（上传失败中止更新）
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, req *dto.UserUpdateRequest, avatar *AvatarUpload) (*dto.UserInfo, error) {
	updates := make(map[string]interface{})
	if req.DisplayName != nil {
		updates["display_name"] = *req.DisplayName
	}
	if req.Bio != nil {
		updates["bio"] = *req.Bio
	}

	if avatar != nil {
		if avatar.Size > maxAttachmentSize {
			return nil, ErrAvatarTooLarge
		}
		ext, ok := allowedAttachmentTypes[avatar.ContentType]
		if !ok {
			return nil, ErrAvatarBadType
		}
		if e := path.Ext(avatar.Filename); e != "" {
			ext = e
		}

		objectName := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.New().String(), ext)
		url, err := s.storage.UploadPublic(ctx, objectName, avatar.Reader, avatar.Size, avatar.ContentType)
		if err != nil {
			logger.Error("Upload avatar failed",
				zap.Int64("user_id", userID), zap.Error(err))
			return nil, err
		}
		updates["avatar"] = url
	}

	if len(updates) == 0 {
		return s.GetMeInfo(ctx, userID)
	}

	user, err := s.userRepo.Update(userID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userToInfo(user, true), nil
}

// GetMeInfo 获取本人完整资料
func (s *UserService) GetMeInfo(ctx context.Context, userID int64) (*dto.UserInfo, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return userToInfo(user, true), nil
}

// CompleteOnboarding 标记完成初始引导（幂等）
func (s *UserService) CompleteOnboarding(ctx context.Context, userID int64) error {
	err := s.userRepo.SetOnboarded(userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// ListUsers 管理员分页查询用户
func (s *UserService) ListUsers(ctx context.Context, page, pageSize int, username, userRole *string) (*dto.UserListData, error) {
	skip := (page - 1) * pageSize
	users, total, err := s.userRepo.ListWithFilters(skip, pageSize, username, userRole)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.UserInfo, 0, len(users))
	for i := range users {
		infos = append(infos, *userToInfo(&users[i], true))
	}

	return &dto.UserListData{
		Users:      infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// SoftDeleteUser 管理员软删除用户
func (s *UserService) SoftDeleteUser(ctx context.Context, userID int64) error {
	_, err := s.userRepo.Update(userID, map[string]interface{}{"is_delete": 1})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// RestoreUser 管理员恢复已删除用户
func (s *UserService) RestoreUser(ctx context.Context, userID int64) error {
	_, err := s.userRepo.Update(userID, map[string]interface{}{"is_delete": 0})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// SetUserRole 管理员调整用户角色
func (s *UserService) SetUserRole(ctx context.Context, userID int64, role string) error {
	_, err := s.userRepo.Update(userID, map[string]interface{}{"user_role": role})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrUserNotFound
	}
	return err
}

// GetUserRole 返回用户角色（鉴权中间件用）
func (s *UserService) GetUserRole(ctx context.Context, userID int64) (string, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	return user.UserRole, nil
}

// IsOnboarded 返回用户是否完成初始引导（中间件用）
func (s *UserService) IsOnboarded(ctx context.Context, userID int64) (bool, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, ErrUserNotFound
		}
		return false, err
	}
	return user.Onboarded, nil
}
