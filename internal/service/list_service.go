package service

import (
	"context"
	"errors"

	"deeperweave/internal/api/dto"
	"deeperweave/internal/model"
	"deeperweave/internal/repository"
	"deeperweave/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrListNotFound     = errors.New("片单不存在")
	ErrListNoPermission = errors.New("无权操作该片单")
	ErrListItemExists   = errors.New("该媒体已在片单中")
	ErrListItemMissing  = errors.New("该媒体不在片单中")
)

type ListService struct {
	listRepo *repository.ListRepository
	mirror   MirrorSyncer
}

func NewListService(listRepo *repository.ListRepository, mirror MirrorSyncer) *ListService {
	return &ListService{listRepo: listRepo, mirror: mirror}
}

// Create 创建片单，默认公开
func (s *ListService) Create(ctx context.Context, userID int64, req *dto.ListCreateRequest) (*dto.ListInfo, error) {
	isPublic := true
	if req.IsPublic != nil {
		isPublic = *req.IsPublic
	}

	list := &model.List{
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
		IsPublic:    isPublic,
	}
	if err := s.listRepo.Create(list); err != nil {
		logger.Error("Create list failed",
			zap.Int64("user_id", userID), zap.Error(err))
		return nil, err
	}
	return listToInfo(list, false), nil
}

// Get 查询片单详情（含条目）；私有片单仅本人可见
func (s *ListService) Get(ctx context.Context, viewerID, listID int64) (*dto.ListInfo, error) {
	list, err := s.listRepo.GetByIDWithItems(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	if !list.IsPublic && list.UserID != viewerID {
		return nil, ErrListNotFound
	}
	return listToInfo(list, true), nil
}

// Update 更新片单（仅本人）
func (s *ListService) Update(ctx context.Context, userID, listID int64, req *dto.ListUpdateRequest) (*dto.ListInfo, error) {
	if err := s.checkOwnership(userID, listID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if len(updates) == 0 {
		list, err := s.listRepo.GetByID(listID)
		if err != nil {
			return nil, err
		}
		return listToInfo(list, false), nil
	}

	list, err := s.listRepo.Update(listID, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrListNotFound
		}
		return nil, err
	}
	return listToInfo(list, false), nil
}

// Delete 删除片单及其所有条目（仅本人）
func (s *ListService) Delete(ctx context.Context, userID, listID int64) error {
	if err := s.checkOwnership(userID, listID); err != nil {
		return err
	}
	return s.listRepo.Delete(listID)
}

// ListByUser 获取用户的片单列表；查看他人时只返回公开片单
func (s *ListService) ListByUser(ctx context.Context, viewerID, ownerID int64, page, pageSize int) (*dto.ListListData, error) {
	skip := (page - 1) * pageSize
	lists, total, err := s.listRepo.ListByUser(ownerID, viewerID == ownerID, skip, pageSize)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.ListInfo, 0, len(lists))
	for i := range lists {
		infos = append(infos, *listToInfo(&lists[i], false))
	}

	return &dto.ListListData{
		Lists:      infos,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// AddItem 向片单追加媒体（仅本人），首次引用的媒体会触发镜像同步
func (s *ListService) AddItem(ctx context.Context, userID, listID int64, req *dto.ListItemRequest) (*dto.ListItemInfo, error) {
	if err := s.checkOwnership(userID, listID); err != nil {
		return nil, err
	}

	exists, err := s.listRepo.ExistsItem(listID, req.MediaType, req.MediaID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrListItemExists
	}

	if err := s.mirror.SyncMirror(ctx, req.MediaType, req.MediaID); err != nil {
		if errors.Is(err, ErrMediaNotFound) || errors.Is(err, ErrInvalidMediaType) {
			return nil, err
		}
		return nil, ErrMediaSyncFailed
	}

	item, err := s.listRepo.AddItem(listID, req.MediaType, req.MediaID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrListItemExists
		}
		return nil, err
	}

	return &dto.ListItemInfo{
		ID:        item.ID,
		MediaType: item.MediaType,
		MediaID:   item.MediaID,
		SortOrder: item.SortOrder,
		CreatedAt: item.CreatedAt,
	}, nil
}

// RemoveItem 从片单删除媒体（仅本人）
func (s *ListService) RemoveItem(ctx context.Context, userID, listID int64, mediaType string, mediaID int64) error {
	if err := s.checkOwnership(userID, listID); err != nil {
		return err
	}

	removed, err := s.listRepo.RemoveItem(listID, mediaType, mediaID)
	if err != nil {
		return err
	}
	if !removed {
		return ErrListItemMissing
	}
	return nil
}

// Reorder 按给定条目顺序重排片单（仅本人，条目必须属于该片单）
func (s *ListService) Reorder(ctx context.Context, userID, listID int64, req *dto.ListReorderRequest) error {
	if err := s.checkOwnership(userID, listID); err != nil {
		return err
	}

	if err := s.listRepo.ReorderItems(listID, req.ItemIDs); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListItemMissing
		}
		return err
	}
	return nil
}

func (s *ListService) checkOwnership(userID, listID int64) error {
	list, err := s.listRepo.GetByID(listID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrListNotFound
		}
		return err
	}
	if list.UserID != userID {
		return ErrListNoPermission
	}
	return nil
}

func listToInfo(list *model.List, withItems bool) *dto.ListInfo {
	info := &dto.ListInfo{
		ID:          list.ID,
		UserID:      list.UserID,
		Name:        list.Name,
		Description: list.Description,
		IsPublic:    list.IsPublic,
		ItemCount:   list.ItemCount,
		CreatedAt:   list.CreatedAt,
		UpdatedAt:   list.UpdatedAt,
	}
	if withItems {
		items := make([]dto.ListItemInfo, 0, len(list.Items))
		for _, item := range list.Items {
			items = append(items, dto.ListItemInfo{
				ID:        item.ID,
				MediaType: item.MediaType,
				MediaID:   item.MediaID,
				SortOrder: item.SortOrder,
				CreatedAt: item.CreatedAt,
			})
		}
		info.Items = items
	}
	return info
}
