package repository

import (
	"time"

	"music-go/internal/model"

	"gorm.io/gorm"
)

type PlayHistoryRepository struct {
	db *gorm.DB
}

func NewPlayHistoryRepository(db *gorm.DB) *PlayHistoryRepository {
	return &PlayHistoryRepository{db: db}
}

func (r *PlayHistoryRepository) WithTx(tx *gorm.DB) *PlayHistoryRepository {
	return &PlayHistoryRepository{db: tx}
}

// Create 追加一条播放记录，playedAt 为零值时取当前时间
func (r *PlayHistoryRepository) Create(userID, trackID int64, playedAt time.Time) (*model.PlayHistory, error) {
	if playedAt.IsZero() {
		playedAt = time.Now()
	}
	record := &model.PlayHistory{UserID: userID, TrackID: trackID, PlayedAt: playedAt}
	if err := r.db.Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// ListByUser 用户播放记录，最新优先
func (r *PlayHistoryRepository) ListByUser(userID int64, skip, limit int) ([]model.PlayHistory, int64, error) {
	query := r.db.Model(&model.PlayHistory{}).Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var records []model.PlayHistory
	err := query.Order("played_at DESC").Order("id DESC").
		Offset(skip).Limit(limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, err
	}
	return records, total, nil
}

// recentScanBatch 最近播放按批扫描的每批条数
const recentScanBatch = 200

// RecentTrackIDs 按 played_at DESC, id DESC 逐批扫描播放记录，
// 每个音轨只保留第一次出现，凑满 limit 个为止
func (r *PlayHistoryRepository) RecentTrackIDs(userID int64, limit int) ([]int64, error) {
	ids := make([]int64, 0, limit)
	seen := make(map[int64]struct{}, limit)

	for offset := 0; len(ids) < limit; offset += recentScanBatch {
		var batch []int64
		err := r.db.Model(&model.PlayHistory{}).
			Where("user_id = ?", userID).
			Order("played_at DESC").Order("id DESC").
			Offset(offset).Limit(recentScanBatch).
			Pluck("track_id", &batch).Error
		if err != nil {
			return nil, err
		}

		for _, id := range batch {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
			if len(ids) == limit {
				break
			}
		}
		if len(batch) < recentScanBatch {
			break
		}
	}
	return ids, nil
}

func (r *PlayHistoryRepository) CountByTrack(trackID int64) (int64, error) {
	var count int64
	err := r.db.Model(&model.PlayHistory{}).Where("track_id = ?", trackID).Count(&count).Error
	return count, err
}

// CountByTracks 批量统计播放次数
func (r *PlayHistoryRepository) CountByTracks(trackIDs []int64) (map[int64]int64, error) {
	if len(trackIDs) == 0 {
		return map[int64]int64{}, nil
	}
	var rows []countRow
	err := r.db.Model(&model.PlayHistory{}).
		Select("track_id AS id, COUNT(*) AS total").
		Where("track_id IN ?", trackIDs).
		Group("track_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return countMap(rows), nil
}

func (r *PlayHistoryRepository) DeleteByTrack(trackID int64) error {
	return r.db.Where("track_id = ?", trackID).Delete(&model.PlayHistory{}).Error
}
