package repository

import (
	"music-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type LikeRepository struct {
	db *gorm.DB
}

func NewLikeRepository(db *gorm.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

func (r *LikeRepository) WithTx(tx *gorm.DB) *LikeRepository {
	return &LikeRepository{db: tx}
}

// Create 创建点赞记录，重复点赞返回 ErrDuplicate
func (r *LikeRepository) Create(userID, trackID int64) (*model.Like, error) {
	like := &model.Like{UserID: userID, TrackID: trackID}
	if err := r.db.Create(like).Error; err != nil {
		return nil, translateError(err)
	}
	return like, nil
}

// CreateIfAbsent 冲突时不插入也不报错，事务可以继续使用；返回是否新插入
func (r *LikeRepository) CreateIfAbsent(userID, trackID int64) (bool, error) {
	result := r.db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.Like{UserID: userID, TrackID: trackID})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete 取消点赞
func (r *LikeRepository) Delete(userID, trackID int64) (bool, error) {
	result := r.db.Where("user_id = ? AND track_id = ?", userID, trackID).Delete(&model.Like{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Exists 检查是否已点赞
func (r *LikeRepository) Exists(userID, trackID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND track_id = ?", userID, trackID).
		Count(&count).Error
	return count > 0, err
}

// CountByTrack 统计音轨点赞数
func (r *LikeRepository) CountByTrack(trackID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.Like{}).Where("track_id = ?", trackID).Count(&count).Error
	return count, err
}

// CountByTracks 批量统计点赞数
func (r *LikeRepository) CountByTracks(trackIDs []int64) (map[int64]int64, error) {
	if len(trackIDs) == 0 {
		return map[int64]int64{}, nil
	}
	var rows []countRow
	err := r.db.Model(&model.Like{}).
		Select("track_id AS id, COUNT(*) AS total").
		Where("track_id IN ?", trackIDs).
		Group("track_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countMap(rows), nil
}

// LikedTrackIDs 批量检查用户是否点赞
func (r *LikeRepository) LikedTrackIDs(userID int64, trackIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool, len(trackIDs))
	if len(trackIDs) == 0 {
		return result, nil
	}
	var liked []int64
	err := r.db.Model(&model.Like{}).
		Where("user_id = ? AND track_id IN ?", userID, trackIDs).
		Pluck("track_id", &liked).Error
	if err != nil {
		return nil, err
	}
	for _, id := range liked {
		result[id] = true
	}
	return result, nil
}

// ListByTrack 音轨的点赞列表，带点赞用户
func (r *LikeRepository) ListByTrack(trackID int64, skip, limit int) ([]model.Like, int64, error) {
	query := r.db.Model(&model.Like{}).Where("track_id = ?", trackID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var likes []model.Like
	err := query.Preload("User").
		Order("created_at DESC").Order("user_id ASC").
		Offset(skip).Limit(limit).
		Find(&likes).Error
	if err != nil {
		return nil, 0, err
	}
	return likes, total, nil
}

// ListTrackIDsByUser 用户点赞过的音轨ID，最近优先
func (r *LikeRepository) ListTrackIDsByUser(userID int64, skip, limit int) ([]int64, int64, error) {
	query := r.db.Model(&model.Like{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var trackIDs []int64
	err := query.Order("created_at DESC").Order("track_id DESC").
		Offset(skip).Limit(limit).
		Pluck("track_id", &trackIDs).Error
	if err != nil {
		return nil, 0, err
	}
	return trackIDs, total, nil
}

func (r *LikeRepository) DeleteByTrack(trackID int64) error {
	return r.db.Where("track_id = ?", trackID).Delete(&model.Like{}).Error
}
