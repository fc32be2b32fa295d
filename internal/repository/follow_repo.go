package repository

import (
	"music-go/internal/model"

	"gorm.io/gorm"
)

type FollowRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

func (r *FollowRepository) WithTx(tx *gorm.DB) *FollowRepository {
	return &FollowRepository{db: tx}
}

// Create 创建关注关系，重复关注返回 ErrDuplicate
func (r *FollowRepository) Create(followerID, followingID int64) (*model.Follow, error) {
	follow := &model.Follow{FollowerID: followerID, FollowingID: followingID}
	if err := r.db.Create(follow).Error; err != nil {
		return nil, translateError(err)
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

// Exists 检查关注关系是否存在
func (r *FollowRepository) Exists(followerID, followingID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&count).Error
	return count > 0, err
}

// ListFollowingIDs 用户关注的人（分页）
func (r *FollowRepository) ListFollowingIDs(userID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Follow{}).
		Where("follower_id = ?", userID).
		Order("created_at DESC").Order("following_id ASC").
		Offset(skip).Limit(limit).
		Pluck("following_id", &ids).Error
	return ids, err
}

// ListFollowerIDs 用户的粉丝（分页）
func (r *FollowRepository) ListFollowerIDs(userID int64, skip, limit int) ([]int64, error) {
	var ids []int64
	err := r.db.Model(&model.Follow{}).
		Where("following_id = ?", userID).
		Order("created_at DESC").Order("follower_id ASC").
		Offset(skip).Limit(limit).
		Pluck("follower_id", &ids).Error
	return ids, err
}

// CountFollowing 统计关注数
func (r *FollowRepository) CountFollowing(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("follower_id = ?", userID).Count(&count).Error
	return count, err
}

// CountFollowers 统计粉丝数
func (r *FollowRepository) CountFollowers(userID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Follow{}).Where("following_id = ?", userID).Count(&count).Error
	return count, err
}
