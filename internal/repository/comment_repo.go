package repository

import (
	"music-go/internal/model"

	"gorm.io/gorm"
)

type CommentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) WithTx(tx *gorm.DB) *CommentRepository {
	return &CommentRepository{db: tx}
}

func (r *CommentRepository) Create(comment *model.Comment) error {
	return r.db.Create(comment).Error
}

func (r *CommentRepository) GetByID(id int64) (*model.Comment, error) {
	var comment model.Comment
	if err := r.db.Preload("User").First(&comment, id).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

// UpdateContent 更新评论内容
func (r *CommentRepository) UpdateContent(id int64, content string) error {
	result := r.db.Model(&model.Comment{}).Where("id = ?", id).Update("content", content)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *CommentRepository) Delete(id int64) (bool, error) {
	result := r.db.Delete(&model.Comment{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByTrack 音轨的评论列表，最新优先
func (r *CommentRepository) ListByTrack(trackID int64, skip, limit int) ([]model.Comment, int64, error) {
	query := r.db.Model(&model.Comment{}).Where("track_id = ?", trackID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var comments []model.Comment
	err := query.Preload("User").
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&comments).Error
	if err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// CountByTracks 批量统计评论数
func (r *CommentRepository) CountByTracks(trackIDs []int64) (map[int64]int64, error) {
	if len(trackIDs) == 0 {
		return map[int64]int64{}, nil
	}
	var rows []countRow
	err := r.db.Model(&model.Comment{}).
		Select("track_id AS id, COUNT(*) AS total").
		Where("track_id IN ?", trackIDs).
		Group("track_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countMap(rows), nil
}

func (r *CommentRepository) DeleteByTrack(trackID int64) error {
	return r.db.Where("track_id = ?", trackID).Delete(&model.Comment{}).Error
}
