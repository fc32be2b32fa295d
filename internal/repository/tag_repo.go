package repository

import (
	"music-go/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepository struct {
	db *gorm.DB
}

func NewTagRepository(db *gorm.DB) *TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) WithTx(tx *gorm.DB) *TagRepository {
	return &TagRepository{db: tx}
}

// GetOrCreate 按名称取标签，不存在则创建
func (r *TagRepository) GetOrCreate(names []string) ([]model.Tag, error) {
	if len(names) == 0 {
		return []model.Tag{}, nil
	}
	rows := make([]model.Tag, 0, len(names))
	for _, n := range names {
		rows = append(rows, model.Tag{Name: n})
	}
	if err := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
		return nil, err
	}

	var tags []model.Tag
	err := r.db.Where("name IN ?", names).Order("id ASC").Find(&tags).Error
	return tags, err
}

// ReplaceTrackTags 覆盖音轨的标签集合
func (r *TagRepository) ReplaceTrackTags(trackID int64, tagIDs []int64) error {
	if err := r.db.Where("track_id = ?", trackID).Delete(&model.TrackTag{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	links := make([]model.TrackTag, 0, len(tagIDs))
	for _, id := range tagIDs {
		links = append(links, model.TrackTag{TrackID: trackID, TagID: id})
	}
	return r.db.Create(&links).Error
}

// NamesByTrackIDs 批量取标签名
func (r *TagRepository) NamesByTrackIDs(trackIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(trackIDs))
	if len(trackIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		TrackID int64
		Name    string
	}
	err := r.db.Table("track_tags").
		Select("track_tags.track_id, tags.name").
		Joins("JOIN tags ON tags.id = track_tags.tag_id").
		Where("track_tags.track_id IN ?", trackIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		result[row.TrackID] = append(result[row.TrackID], row.Name)
	}
	return result, nil
}

func (r *TagRepository) DeleteByTrack(trackID int64) error {
	return r.db.Where("track_id = ?", trackID).Delete(&model.TrackTag{}).Error
}
