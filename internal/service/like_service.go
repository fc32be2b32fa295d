package service

import (
	"errors"

	"music-go/internal/api/dto"
	"music-go/internal/repository"
	"music-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type LikeService struct {
	likeRepo  *repository.LikeRepository
	trackRepo *repository.TrackRepository
	txm       *repository.TxManager
	views     *trackViews
}

func NewLikeService(
	likeRepo *repository.LikeRepository,
	trackRepo *repository.TrackRepository,
	tagRepo *repository.TagRepository,
	commentRepo *repository.CommentRepository,
	playRepo *repository.PlayHistoryRepository,
	txm *repository.TxManager,
) *LikeService {
	return &LikeService{
		likeRepo:  likeRepo,
		trackRepo: trackRepo,
		txm:       txm,
		views:     newTrackViews(tagRepo, likeRepo, commentRepo, playRepo),
	}
}

func ensureTrack(trackRepo *repository.TrackRepository, trackID int64) error {
	exists, err := trackRepo.Exists(trackID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrTrackNotFound
	}
	return nil
}

// Toggle 已点赞则取消，未点赞则点赞；返回切换后的状态
func (s *LikeService) Toggle(userID, trackID int64) (*dto.LikeToggleResult, error) {
	result := &dto.LikeToggleResult{}
	err := s.txm.Transaction(func(tx *gorm.DB) error {
		likeRepo := s.likeRepo.WithTx(tx)
		if err := ensureTrack(s.trackRepo.WithTx(tx), trackID); err != nil {
			return err
		}

		removed, err := likeRepo.Delete(userID, trackID)
		if err != nil {
			return err
		}
		if removed {
			result.Message = "已取消点赞"
			result.IsLiked = false
		} else {
			// 并发点赞时另一方已插入，结果同样是已点赞
			if _, err := likeRepo.CreateIfAbsent(userID, trackID); err != nil {
				return err
			}
			result.Message = "点赞成功"
			result.IsLiked = true
		}

		count, err := likeRepo.CountByTrack(trackID)
		if err != nil {
			return err
		}
		result.LikeCount = count
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Debug("Like toggled",
		zap.Int64("user_id", userID),
		zap.Int64("track_id", trackID),
		zap.Bool("is_liked", result.IsLiked),
	)
	return result, nil
}

// Add 点赞，重复点赞返回冲突
func (s *LikeService) Add(userID, trackID int64) (*dto.LikeStatus, error) {
	if err := ensureTrack(s.trackRepo, trackID); err != nil {
		return nil, err
	}
	if _, err := s.likeRepo.Create(userID, trackID); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAlreadyLiked
		}
		return nil, err
	}
	return s.Status(userID, trackID)
}

// Remove 取消点赞
func (s *LikeService) Remove(userID, trackID int64) (*dto.LikeStatus, error) {
	if err := ensureTrack(s.trackRepo, trackID); err != nil {
		return nil, err
	}
	removed, err := s.likeRepo.Delete(userID, trackID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrNotLiked
	}
	return s.Status(userID, trackID)
}

// Status 点赞数与当前用户是否已点赞
func (s *LikeService) Status(userID, trackID int64) (*dto.LikeStatus, error) {
	count, err := s.likeRepo.CountByTrack(trackID)
	if err != nil {
		return nil, err
	}
	liked := false
	if userID != 0 {
		if liked, err = s.likeRepo.Exists(userID, trackID); err != nil {
			return nil, err
		}
	}
	return &dto.LikeStatus{TrackID: trackID, LikeCount: count, IsLiked: liked}, nil
}

// ListByTrack 点赞用户列表
func (s *LikeService) ListByTrack(trackID int64, skip, limit int) (*dto.TrackLikeListData, error) {
	if err := ensureTrack(s.trackRepo, trackID); err != nil {
		return nil, err
	}
	likes, total, err := s.likeRepo.ListByTrack(trackID, skip, limit)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.LikeInfo, 0, len(likes))
	for i := range likes {
		infos = append(infos, dto.LikeInfo{
			TrackID:   likes[i].TrackID,
			UserID:    likes[i].UserID,
			User:      toUserBrief(&likes[i].User),
			CreatedAt: likes[i].CreatedAt,
		})
	}
	return &dto.TrackLikeListData{Likes: infos, Total: total}, nil
}

// LikedTracks 用户点赞过的音轨，最近点赞优先
func (s *LikeService) LikedTracks(userID int64, skip, limit int) (*dto.TrackListData, error) {
	ids, total, err := s.likeRepo.ListTrackIDsByUser(userID, skip, limit)
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
	return &dto.TrackListData{Tracks: infos, Total: total, Skip: skip, Limit: limit}, nil
}
