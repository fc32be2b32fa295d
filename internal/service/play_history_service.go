package service

import (
	"time"

	"music-go/internal/api/dto"
	"music-go/internal/repository"
)

// RecentlyPlayedDefault 最近播放默认条数
const RecentlyPlayedDefault = 20

type PlayHistoryService struct {
	playRepo  *repository.PlayHistoryRepository
	trackRepo *repository.TrackRepository
	views     *trackViews
	now       func() time.Time
}

func NewPlayHistoryService(
	playRepo *repository.PlayHistoryRepository,
	trackRepo *repository.TrackRepository,
	tagRepo *repository.TagRepository,
	likeRepo *repository.LikeRepository,
	commentRepo *repository.CommentRepository,
) *PlayHistoryService {
	return &PlayHistoryService{
		playRepo:  playRepo,
		trackRepo: trackRepo,
		views:     newTrackViews(tagRepo, likeRepo, commentRepo, playRepo),
		now:       time.Now,
	}
}

// Record 记录一次播放
func (s *PlayHistoryService) Record(userID, trackID int64) (*dto.PlayRecordInfo, error) {
	if err := ensureTrack(s.trackRepo, trackID); err != nil {
		return nil, err
	}
	record, err := s.playRepo.Create(userID, trackID, s.now().UTC())
	if err != nil {
		return nil, err
	}
	return &dto.PlayRecordInfo{ID: record.ID, TrackID: record.TrackID, PlayedAt: record.PlayedAt}, nil
}

// History 播放记录（含重复），最新优先
func (s *PlayHistoryService) History(userID int64, skip, limit int) (*dto.PlayHistoryListData, error) {
	records, total, err := s.playRepo.ListByUser(userID, skip, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(records))
	for _, r := range records {
		ids = append(ids, r.TrackID)
	}
	byID, err := s.trackInfos(ids, userID)
	if err != nil {
		return nil, err
	}

	history := make([]dto.PlayRecordInfo, 0, len(records))
	for _, r := range records {
		item := dto.PlayRecordInfo{ID: r.ID, TrackID: r.TrackID, PlayedAt: r.PlayedAt}
		if info, ok := byID[r.TrackID]; ok {
			item.Track = &info
		}
		history = append(history, item)
	}
	return &dto.PlayHistoryListData{History: history, Total: total}, nil
}

// RecentlyPlayed 最近播放过的不重复音轨
func (s *PlayHistoryService) RecentlyPlayed(userID int64, limit int) (*dto.RecentlyPlayedData, error) {
	if limit <= 0 {
		limit = RecentlyPlayedDefault
	}
	ids, err := s.playRepo.RecentTrackIDs(userID, limit)
	if err != nil {
		return nil, err
	}
	tracks, err := s.trackRepo.GetByIDs(ids)
	if err != nil {
		return nil, err
	}
	infos, err := s.views.build(tracks, userID)
	if err != nil {
		return nil, err
	}
	return &dto.RecentlyPlayedData{Tracks: infos}, nil
}

// PlayCount 音轨播放次数
func (s *PlayHistoryService) PlayCount(trackID int64) (*dto.PlayCountInfo, error) {
	if err := ensureTrack(s.trackRepo, trackID); err != nil {
		return nil, err
	}
	count, err := s.playRepo.CountByTrack(trackID)
	if err != nil {
		return nil, err
	}
	return &dto.PlayCountInfo{TrackID: trackID, PlayCount: count}, nil
}

func (s *PlayHistoryService) trackInfos(ids []int64, viewerID int64) (map[int64]dto.TrackInfo, error) {
	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	tracks, err := s.trackRepo.GetByIDs(unique)
	if err != nil {
		return nil, err
	}
	infos, err := s.views.build(tracks, viewerID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]dto.TrackInfo, len(infos))
	for _, info := range infos {
		byID[info.ID] = info
	}
	return byID, nil
}
