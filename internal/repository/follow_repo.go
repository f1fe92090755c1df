package repository

import (
	"deeperweave/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create 创建关注关系（status 直接写为 accepted，pending 流程未启用）
func (r *FollowRepository) Create(followerID, followingID int64) (*model.Follow, error) {
	follow := &model.Follow{
		FollowerID:  followerID,
		FollowingID: followingID,
		Status:      model.FollowStatusAccepted,
	}
	if err := r.db.Create(follow).Error; err != nil {
		return nil, err
	}
	return follow, nil
}

// Delete 删除关注关系
func (r *FollowRepository) Delete(followerID, followingID int64) (bool, error) {
	result := r.db.Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Delete(&model.Follow{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查有效（accepted）关注关系是否存在
func (r *FollowRepository) Exists(followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ? AND status = ?",
			followerID, followingID, model.FollowStatusAccepted).
		Count(&count).Error
	return count > 0, err
}

// GetFollowingIDs 获取用户的关注列表（分页）
func (r *FollowRepository) GetFollowingIDs(userID int64, skip, limit int) ([]int64, error) {
	var followingIDs []int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND status = ?", userID, model.FollowStatusAccepted).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Pluck("following_id", &followingIDs).Error
	return followingIDs, err
}

// GetFollowerIDs 获取用户的粉丝列表（分页）
func (r *FollowRepository) GetFollowerIDs(userID int64, skip, limit int) ([]int64, error) {
	var followerIDs []int64
	err := r.db.Model(&model.Follow{}).
		Where("following_id = ? AND status = ?", userID, model.FollowStatusAccepted).
		Order("created_at DESC").
		Offset(skip).Limit(limit).
		Pluck("follower_id", &followerIDs).Error
	return followerIDs, err
}

// CountFollowing 统计关注数
func (r *FollowRepository) CountFollowing(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND status = ?", userID, model.FollowStatusAccepted).
		Count(&count).Error
	return count, err
}

// CountFollowers 统计粉丝数
func (r *FollowRepository) CountFollowers(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("following_id = ? AND status = ?", userID, model.FollowStatusAccepted).
		Count(&count).Error
	return count, err
}

// GetMutualFollowIDs 获取互相关注的用户 ID 列表（分页）
func (r *FollowRepository) GetMutualFollowIDs(userID int64, skip, limit int) ([]int64, error) {
	var mutualIDs []int64
	// 子查询：我关注的人 ∩ 关注我的人
	err := r.db.Raw(`
		SELECT f1.following_id FROM follows f1
		INNER JOIN follows f2 ON f1.following_id = f2.follower_id AND f2.following_id = ?
		WHERE f1.follower_id = ?
		ORDER BY f1.created_at DESC
		LIMIT ? OFFSET ?
	`, userID, userID, limit, skip).Scan(&mutualIDs).Error
	return mutualIDs, err
}

// CountMutualFollows 统计互相关注数
func (r *FollowRepository) CountMutualFollows(userID int64) (int64, error) {
	var count int64
	err := r.db.Raw(`
		SELECT COUNT(*) FROM follows f1
		INNER JOIN follows f2 ON f1.following_id = f2.follower_id AND f2.following_id = ?
		WHERE f1.follower_id = ?
	`, userID, userID).Scan(&count).Error
	return count, err
}

// BatchCheckFollowing 批量检查关注状态
func (r *FollowRepository) BatchCheckFollowing(followerID int64, followingIDs []int64) (map[int64]bool, error) {
	if len(followingIDs) == 0 {
		return map[int64]bool{}, nil
	}

	var followedIDs []int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id IN ? AND status = ?",
			followerID, followingIDs, model.FollowStatusAccepted).
		Pluck("following_id", &followedIDs).Error
	if err != nil {
		return nil, err
	}

	followedSet := make(map[int64]bool, len(followedIDs))
	for _, id := range followedIDs {
		followedSet[id] = true
	}

	result := make(map[int64]bool, len(followingIDs))
	for _, id := range followingIDs {
		result[id] = followedSet[id]
	}
	return result, nil
}
