package repository

import (
	"music-go/internal/model"

	"gorm.io/gorm"
)

type PlaylistRepository struct {
	db *gorm.DB
}

func NewPlaylistRepository(db *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

func (r *PlaylistRepository) WithTx(tx *gorm.DB) *PlaylistRepository {
	return &PlaylistRepository{db: tx}
}

func (r *PlaylistRepository) Create(playlist *model.Playlist) error {
	return r.db.Create(playlist).Error
}

func (r *PlaylistRepository) GetByID(id int64) (*model.Playlist, error) {
	var playlist model.Playlist
	if err := r.db.Preload("Owner").First(&playlist, id).Error; err != nil {
		return nil, err
	}
	return &playlist, nil
}

// Update 部分更新
func (r *PlaylistRepository) Update(id int64, updates map[string]interface{}) (*model.Playlist, error) {
	result := r.db.Model(&model.Playlist{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(id)
}

func (r *PlaylistRepository) Delete(id int64) (bool, error) {
	result := r.db.Delete(&model.Playlist{}, id)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListByOwner 用户的歌单；includePrivate 为 false 时在 SQL 中过滤私有歌单
func (r *PlaylistRepository) ListByOwner(ownerID int64, includePrivate bool, skip, limit int) ([]model.Playlist, int64, error) {
	query := r.db.Model(&model.Playlist{}).Where("owner_user_id = ?", ownerID)
	if !includePrivate {
		query = query.Where("is_public = ?", true)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var playlists []model.Playlist
	err := query.Preload("Owner").
		Order("created_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&playlists).Error
	if err != nil {
		return nil, 0, err
	}
	return playlists, total, nil
}

// HasTrack 音轨是否已在歌单中
func (r *PlaylistRepository) HasTrack(playlistID, trackID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.PlaylistTrack{}).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Count(&count).Error
	return count > 0, err
}

// NextTrackOrder 追加位置 = 当前最大位置 + 1，空歌单从 0 开始
func (r *PlaylistRepository) NextTrackOrder(playlistID int64) (int, error) {
	var next int
	err := r.db.Model(&model.PlaylistTrack{}).
		Select("COALESCE(MAX(track_order), -1) + 1").
		Where("playlist_id = ?", playlistID).
		Scan(&next).Error
	return next, err
}

// AddTrack 添加音轨，重复添加返回 ErrDuplicate
func (r *PlaylistRepository) AddTrack(playlistID, trackID int64, order int) (*model.PlaylistTrack, error) {
	item := &model.PlaylistTrack{PlaylistID: playlistID, TrackID: trackID, TrackOrder: order}
	if err := r.db.Create(item).Error; err != nil {
		return nil, translateError(err)
	}
	return item, nil
}

func (r *PlaylistRepository) RemoveTrack(playlistID, trackID int64) (bool, error) {
	result := r.db.Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Delete(&model.PlaylistTrack{})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// SetTrackOrder 直接覆盖某条目的位置
func (r *PlaylistRepository) SetTrackOrder(playlistID, trackID int64, order int) (bool, error) {
	result := r.db.Model(&model.PlaylistTrack{}).
		Where("playlist_id = ? AND track_id = ?", playlistID, trackID).
		Update("track_order", order)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// ListTracks 歌单条目，按位置升序，位置相同按音轨ID
func (r *PlaylistRepository) ListTracks(playlistID int64) ([]model.PlaylistTrack, error) {
	var items []model.PlaylistTrack
	err := r.db.Where("playlist_id = ?", playlistID).
		Order("track_order ASC").Order("track_id ASC").
		Find(&items).Error
	return items, err
}

func (r *PlaylistRepository) CountTracks(playlistID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.PlaylistTrack{}).Where("playlist_id = ?", playlistID).Count(&count).Error
	return count, err
}

// CountTracksByPlaylists 批量统计条目数
func (r *PlaylistRepository) CountTracksByPlaylists(playlistIDs []int64) (map[int64]int64, error) {
	if len(playlistIDs) == 0 {
		return map[int64]int64{}, nil
	}
	var rows []countRow
	err := r.db.Model(&model.PlaylistTrack{}).
		Select("playlist_id AS id, COUNT(*) AS total").
		Where("playlist_id IN ?", playlistIDs).
		Group("playlist_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countMap(rows), nil
}

func (r *PlaylistRepository) DeleteTracks(playlistID int64) error {
	return r.db.Where("playlist_id = ?", playlistID).Delete(&model.PlaylistTrack{}).Error
}

// DeleteTrackEverywhere 从所有歌单中移除某音轨
func (r *PlaylistRepository) DeleteTrackEverywhere(trackID int64) error {
	return r.db.Where("track_id = ?", trackID).Delete(&model.PlaylistTrack{}).Error
}
