package service

import (
	"errors"

	"music-go/internal/api/dto"
	"music-go/internal/model"
	"music-go/internal/repository"
	"music-go/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type PlaylistService struct {
	playlistRepo *repository.PlaylistRepository
	trackRepo    *repository.TrackRepository
	userRepo     *repository.UserRepository
	txm          *repository.TxManager
	views        *trackViews
}

func NewPlaylistService(
	playlistRepo *repository.PlaylistRepository,
	trackRepo *repository.TrackRepository,
	userRepo *repository.UserRepository,
	tagRepo *repository.TagRepository,
	likeRepo *repository.LikeRepository,
	commentRepo *repository.CommentRepository,
	playRepo *repository.PlayHistoryRepository,
	txm *repository.TxManager,
) *PlaylistService {
	return &PlaylistService{
		playlistRepo: playlistRepo,
		trackRepo:    trackRepo,
		userRepo:     userRepo,
		txm:          txm,
		views:        newTrackViews(tagRepo, likeRepo, commentRepo, playRepo),
	}
}

// Create 创建歌单，未指定可见性时默认公开
func (s *PlaylistService) Create(ownerID int64, req *dto.PlaylistCreateRequest) (*dto.PlaylistDetail, error) {
	name, err := requireText("name", req.Name)
	if err != nil {
		return nil, err
	}
	playlist := &model.Playlist{
		Name:        name,
		Description: req.Description,
		IsPublic:    true,
		OwnerUserID: ownerID,
	}
	if req.IsPublic != nil {
		playlist.IsPublic = *req.IsPublic
	}
	if err := s.playlistRepo.Create(playlist); err != nil {
		return nil, err
	}

	logger.Info("Playlist created",
		zap.Int64("playlist_id", playlist.ID),
		zap.Int64("owner_user_id", ownerID),
		zap.Bool("is_public", playlist.IsPublic),
	)
	return s.Get(playlist.ID, ownerID)
}

func (s *PlaylistService) getModel(playlistRepo *repository.PlaylistRepository, id int64) (*model.Playlist, error) {
	playlist, err := playlistRepo.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlaylistNotFound
		}
		return nil, err
	}
	return playlist, nil
}

// getOwned 取歌单并校验所有者，先判存在再判权限
func (s *PlaylistService) getOwned(playlistRepo *repository.PlaylistRepository, id, userID int64) (*model.Playlist, error) {
	playlist, err := s.getModel(playlistRepo, id)
	if err != nil {
		return nil, err
	}
	if playlist.OwnerUserID != userID {
		return nil, ErrPlaylistNoPermission
	}
	return playlist, nil
}

// Get 歌单详情；私有歌单仅所有者可见，viewerID 为 0 表示匿名
func (s *PlaylistService) Get(id, viewerID int64) (*dto.PlaylistDetail, error) {
	playlist, err := s.getModel(s.playlistRepo, id)
	if err != nil {
		return nil, err
	}
	if !playlist.IsPublic && (viewerID == 0 || playlist.OwnerUserID != viewerID) {
		return nil, ErrPlaylistPrivate
	}

	items, err := s.playlistRepo.ListTracks(id)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.TrackID)
	}
	tracks, err := s.trackRepo.GetByIDs(ids)
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

	detail := &dto.PlaylistDetail{
		PlaylistInfo: toPlaylistInfo(playlist, int64(len(items))),
		Tracks:       make([]dto.PlaylistTrackInfo, 0, len(items)),
	}
	for _, item := range items {
		info, ok := byID[item.TrackID]
		if !ok {
			continue
		}
		detail.Tracks = append(detail.Tracks, dto.PlaylistTrackInfo{TrackOrder: item.TrackOrder, Track: info})
	}
	return detail, nil
}

// Update 部分更新（仅所有者）
func (s *PlaylistService) Update(id, userID int64, req *dto.PlaylistUpdateRequest) (*dto.PlaylistDetail, error) {
	if _, err := s.getOwned(s.playlistRepo, id, userID); err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name, err := requireText("name", *req.Name)
		if err != nil {
			return nil, err
		}
		updates["name"] = name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.IsPublic != nil {
		updates["is_public"] = *req.IsPublic
	}
	if len(updates) > 0 {
		if _, err := s.playlistRepo.Update(id, updates); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrPlaylistNotFound
			}
			return nil, err
		}
	}
	return s.Get(id, userID)
}

// Delete 删除歌单及其条目（仅所有者）
func (s *PlaylistService) Delete(id, userID int64) error {
	err := s.txm.Transaction(func(tx *gorm.DB) error {
		playlistRepo := s.playlistRepo.WithTx(tx)
		if _, err := s.getOwned(playlistRepo, id, userID); err != nil {
			return err
		}
		if err := playlistRepo.DeleteTracks(id); err != nil {
			return err
		}
		deleted, err := playlistRepo.Delete(id)
		if err != nil {
			return err
		}
		if !deleted {
			return ErrPlaylistNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info("Playlist deleted", zap.Int64("playlist_id", id), zap.Int64("user_id", userID))
	return nil
}

// ListByUser 用户的歌单；非本人只能看到公开歌单
func (s *PlaylistService) ListByUser(ownerID, viewerID int64, skip, limit int) (*dto.PlaylistListData, error) {
	if err := ensureUser(s.userRepo, ownerID); err != nil {
		return nil, err
	}
	includePrivate := viewerID != 0 && viewerID == ownerID
	playlists, total, err := s.playlistRepo.ListByOwner(ownerID, includePrivate, skip, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]int64, 0, len(playlists))
	for i := range playlists {
		ids = append(ids, playlists[i].ID)
	}
	counts, err := s.playlistRepo.CountTracksByPlaylists(ids)
	if err != nil {
		return nil, err
	}

	infos := make([]dto.PlaylistInfo, 0, len(playlists))
	for i := range playlists {
		infos = append(infos, toPlaylistInfo(&playlists[i], counts[playlists[i].ID]))
	}
	return &dto.PlaylistListData{Playlists: infos, Total: total}, nil
}

// AddTrack 把音轨追加到歌单末尾（仅所有者）
func (s *PlaylistService) AddTrack(id, userID, trackID int64) (*dto.PlaylistTrackResult, error) {
	result := &dto.PlaylistTrackResult{PlaylistID: id, TrackID: trackID}
	err := s.txm.Transaction(func(tx *gorm.DB) error {
		playlistRepo := s.playlistRepo.WithTx(tx)
		if _, err := s.getOwned(playlistRepo, id, userID); err != nil {
			return err
		}
		if err := ensureTrack(s.trackRepo.WithTx(tx), trackID); err != nil {
			return err
		}

		order, err := playlistRepo.NextTrackOrder(id)
		if err != nil {
			return err
		}
		if _, err := playlistRepo.AddTrack(id, trackID, order); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return ErrTrackAlreadyInList
			}
			return err
		}
		result.TrackOrder = order
		result.TrackCount, err = playlistRepo.CountTracks(id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RemoveTrack 移除条目，其余条目位置不变
func (s *PlaylistService) RemoveTrack(id, userID, trackID int64) (*dto.PlaylistTrackResult, error) {
	if _, err := s.getOwned(s.playlistRepo, id, userID); err != nil {
		return nil, err
	}
	removed, err := s.playlistRepo.RemoveTrack(id, trackID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, ErrTrackNotInList
	}
	count, err := s.playlistRepo.CountTracks(id)
	if err != nil {
		return nil, err
	}
	return &dto.PlaylistTrackResult{PlaylistID: id, TrackID: trackID, TrackCount: count}, nil
}

// Reorder 直接覆盖条目位置，不平移其他条目
func (s *PlaylistService) Reorder(id, userID int64, req *dto.PlaylistReorderRequest) (*dto.PlaylistTrackResult, error) {
	if _, err := s.getOwned(s.playlistRepo, id, userID); err != nil {
		return nil, err
	}
	order := 0
	if req.NewOrder != nil {
		order = *req.NewOrder
	}
	updated, err := s.playlistRepo.SetTrackOrder(id, req.TrackID, order)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, ErrTrackNotInList
	}
	count, err := s.playlistRepo.CountTracks(id)
	if err != nil {
		return nil, err
	}
	return &dto.PlaylistTrackResult{PlaylistID: id, TrackID: req.TrackID, TrackOrder: order, TrackCount: count}, nil
}

func toPlaylistInfo(p *model.Playlist, trackCount int64) dto.PlaylistInfo {
	return dto.PlaylistInfo{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		IsPublic:    p.IsPublic,
		OwnerUserID: p.OwnerUserID,
		Owner:       toUserBrief(&p.Owner),
		TrackCount:  trackCount,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
