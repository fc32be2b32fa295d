package service

import (
	"errors"
	"strings"

	"music-go/internal/api/dto"
	"music-go/internal/model"
	"music-go/internal/repository"
	"music-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type TrackService struct {
	trackRepo    *repository.TrackRepository
	tagRepo      *repository.TagRepository
	likeRepo     *repository.LikeRepository
	commentRepo  *repository.CommentRepository
	playRepo     *repository.PlayHistoryRepository
	playlistRepo *repository.PlaylistRepository
	txm          *repository.TxManager
	views        *trackViews
}

func NewTrackService(
	trackRepo *repository.TrackRepository,
	tagRepo *repository.TagRepository,
	likeRepo *repository.LikeRepository,
	commentRepo *repository.CommentRepository,
	playRepo *repository.PlayHistoryRepository,
	playlistRepo *repository.PlaylistRepository,
	txm *repository.TxManager,
) *TrackService {
	return &TrackService{
		trackRepo:    trackRepo,
		tagRepo:      tagRepo,
		likeRepo:     likeRepo,
		commentRepo:  commentRepo,
		playRepo:     playRepo,
		playlistRepo: playlistRepo,
		txm:          txm,
		views:        newTrackViews(tagRepo, likeRepo, commentRepo, playRepo),
	}
}

// NewTrack 新建音轨所需字段
type NewTrack struct {
	Title         string
	ArtistName    string
	Description   *string
	FileURL       string
	CoverImageURL *string
	Duration      *float64
	Status        string
	Tags          []string
}

// Create 创建音轨并关联标签
func (s *TrackService) Create(ownerID int64, in *NewTrack) (*dto.TrackInfo, error) {
	title, err := requireText("title", in.Title)
	if err != nil {
		return nil, err
	}
	status := in.Status
	if status == "" {
		status = model.TrackStatusProcessing
	}
	track := &model.Track{
		Title:         title,
		ArtistName:    in.ArtistName,
		Description:   in.Description,
		FileURL:       in.FileURL,
		CoverImageURL: in.CoverImageURL,
		Duration:      in.Duration,
		Status:        status,
		OwnerUserID:   ownerID,
	}

	err = s.txm.Transaction(func(tx *gorm.DB) error {
		if err := s.trackRepo.WithTx(tx).Create(track); err != nil {
			return err
		}
		return s.attachTags(s.tagRepo.WithTx(tx), track.ID, in.Tags)
	})
	if err != nil {
		return nil, err
	}

	logger.Info("Track created",
		zap.Int64("track_id", track.ID),
		zap.Int64("owner_user_id", ownerID),
		zap.String("title", track.Title),
	)
	return s.Get(track.ID, ownerID)
}

func (s *TrackService) attachTags(tagRepo *repository.TagRepository, trackID int64, names []string) error {
	names = normalizeTags(names)
	tags, err := tagRepo.GetOrCreate(names)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(tags))
	for _, t := range tags {
		ids = append(ids, t.ID)
	}
	return tagRepo.ReplaceTrackTags(trackID, ids)
}

// normalizeTags 去空白、转小写、去重
func normalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.ToLower(strings.TrimSpace(n))
		if n == "" {
			continue
		}
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// Get 音轨详情；viewerID 为 0 表示匿名
func (s *TrackService) Get(id, viewerID int64) (*dto.TrackInfo, error) {
	track, err := s.getModel(id)
	if err != nil {
		return nil, err
	}
	return s.views.buildOne(track, viewerID)
}

// GetModel 供流式播放使用
func (s *TrackService) GetModel(id int64) (*model.Track, error) {
	return s.getModel(id)
}

func (s *TrackService) getModel(id int64) (*model.Track, error) {
	track, err := s.trackRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTrackNotFound
		}
		return nil, err
	}
	return track, nil
}

// List 最新音轨
func (s *TrackService) List(skip, limit int, viewerID int64) (*dto.TrackListData, error) {
	tracks, total, err := s.trackRepo.List(skip, limit)
	if err != nil {
		return nil, err
	}
	return s.buildList(tracks, total, skip, limit, viewerID)
}

// ListByOwner 某用户上传的音轨
func (s *TrackService) ListByOwner(ownerID int64, skip, limit int, viewerID int64) (*dto.TrackListData, error) {
	tracks, total, err := s.trackRepo.ListByOwner(ownerID, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.buildList(tracks, total, skip, limit, viewerID)
}

// Search 子串搜索
func (s *TrackService) Search(q string, skip, limit int, viewerID int64) (*dto.TrackListData, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, ErrEmptySearchQuery
	}
	tracks, total, err := s.trackRepo.Search(q, skip, limit)
	if err != nil {
		return nil, err
	}
	return s.buildList(tracks, total, skip, limit, viewerID)
}

func (s *TrackService) buildList(tracks []model.Track, total int64, skip, limit int, viewerID int64) (*dto.TrackListData, error) {
	infos, err := s.views.build(tracks, viewerID)
	if err != nil {
		return nil, err
	}
	return &dto.TrackListData{Tracks: infos, Total: total, Skip: skip, Limit: limit}, nil
}

// Update 上传者部分更新
func (s *TrackService) Update(id, userID int64, req *dto.TrackUpdateRequest) (*dto.TrackInfo, error) {
	track, err := s.getModel(id)
	if err != nil {
		return nil, err
	}
	if track.OwnerUserID != userID {
		return nil, ErrTrackNoPermission
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		title, err := requireText("title", *req.Title)
		if err != nil {
			return nil, err
		}
		updates["title"] = title
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.CoverImageURL != nil {
		updates["cover_image_url"] = *req.CoverImageURL
	}
	if req.Duration != nil {
		updates["duration"] = *req.Duration
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}

	err = s.txm.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if _, err := s.trackRepo.WithTx(tx).Update(id, updates); err != nil {
				return err
			}
		}
		if req.Tags != nil {
			return s.attachTags(s.tagRepo.WithTx(tx), id, *req.Tags)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.Get(id, userID)
}

// Delete 上传者删除音轨，同时清理点赞、评论、标签、歌单条目与播放记录
func (s *TrackService) Delete(id, userID int64) error {
	track, err := s.getModel(id)
	if err != nil {
		return err
	}
	if track.OwnerUserID != userID {
		return ErrTrackNoPermission
	}

	err = s.txm.Transaction(func(tx *gorm.DB) error {
		if err := s.likeRepo.WithTx(tx).DeleteByTrack(id); err != nil {
			return err
		}
		if err := s.commentRepo.WithTx(tx).DeleteByTrack(id); err != nil {
			return err
		}
		if err := s.tagRepo.WithTx(tx).DeleteByTrack(id); err != nil {
			return err
		}
		if err := s.playlistRepo.WithTx(tx).DeleteTrackEverywhere(id); err != nil {
			return err
		}
		if err := s.playRepo.WithTx(tx).DeleteByTrack(id); err != nil {
			return err
		}
		deleted, err := s.trackRepo.WithTx(tx).Delete(id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrTrackNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Track deleted", zap.Int64("track_id", id), zap.Int64("user_id", userID))
	return nil
}
