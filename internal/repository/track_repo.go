package repository

import (
	"strings"

	"music-go/internal/model"

	"gorm.io/gorm"
)

type TrackRepository struct {
	db *gorm.DB
}

func NewTrackRepository(db *gorm.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

func (r *TrackRepository) WithTx(tx *gorm.DB) *TrackRepository {
	return &TrackRepository{db: tx}
}

func (r *TrackRepository) Create(track *model.Track) error {
	return translateError(r.db.Create(track).Error)
}

func (r *TrackRepository) GetByID(id int64) (*model.Track, error) {
	var track model.Track
	if err := r.db.Preload("Owner").First(&track, id).Error; err != nil {
		return nil, err
	}
	return &track, nil
}

// GetByIDs 批量查询，结果按 ids 的顺序返回，不存在的跳过
func (r *TrackRepository) GetByIDs(ids []int64) ([]model.Track, error) {
	if len(ids) == 0 {
		return []model.Track{}, nil
	}
	var tracks []model.Track
	if err := r.db.Preload("Owner").Where("id IN ?", ids).Find(&tracks).Error; err != nil {
		return nil, err
	}

	byID := make(map[int64]model.Track, len(tracks))
	for _, t := range tracks {
		byID[t.ID] = t
	}
	ordered := make([]model.Track, 0, len(ids))
	for _, id := range ids {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
		}
	}
	return ordered, nil
}

func (r *TrackRepository) Exists(id int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Track{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *TrackRepository) paginate(query *gorm.DB, skip, limit int) ([]model.Track, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var tracks []model.Track
	err := query.Preload("Owner").
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&tracks).Error
	if err != nil {
		return nil, 0, err
	}
	return tracks, total, nil
}

// List 最新优先
func (r *TrackRepository) List(skip, limit int) ([]model.Track, int64, error) {
	return r.paginate(r.db.Model(&model.Track{}), skip, limit)
}

// ListByOwner 某个用户上传的音轨
func (r *TrackRepository) ListByOwner(ownerID int64, skip, limit int) ([]model.Track, int64, error) {
	return r.paginate(r.db.Model(&model.Track{}).Where("owner_user_id = ?", ownerID), skip, limit)
}

// Search 标题、艺人名、描述中任一包含 q（大小写无关）
func (r *TrackRepository) Search(q string, skip, limit int) ([]model.Track, int64, error) {
	pattern := likePattern(strings.ToLower(q))
	query := r.db.Model(&model.Track{}).Where(
		"LOWER(title) LIKE ? ESCAPE '!' OR LOWER(artist_name) LIKE ? ESCAPE '!' OR LOWER(COALESCE(description, '')) LIKE ? ESCAPE '!'",
		pattern, pattern, pattern,
	)
	return r.paginate(query, skip, limit)
}

// Update 部分更新
func (r *TrackRepository) Update(id int64, updates map[string]interface{}) (*model.Track, error) {
	result := r.db.Model(&model.Track{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *TrackRepository) Delete(id int64) (bool, error) {
	result := r.db.Delete(&model.Track{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
