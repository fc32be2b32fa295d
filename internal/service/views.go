package service

import (
	"strings"

	"music-go/internal/api/dto"
	"music-go/internal/model"
	"music-go/internal/repository"
)

// requireText 去掉首尾空白后不允许为空
func requireText(field, value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", ErrBlankField.WithDetail("field", field)
	}
	return value, nil
}

func toUserBrief(u *model.UserProfile) *dto.UserBrief {
	if u == nil || u.ID == 0 {
		return nil
	}
	return &dto.UserBrief{
		ID:              u.ID,
		Nickname:        u.Nickname,
		ProfileImageURL: u.ProfileImageURL,
	}
}

// trackViews 把音轨模型组装成带统计的 TrackInfo
type trackViews struct {
	tagRepo     *repository.TagRepository
	likeRepo    *repository.LikeRepository
	commentRepo *repository.CommentRepository
	playRepo    *repository.PlayHistoryRepository
}

func newTrackViews(
	tagRepo *repository.TagRepository,
	likeRepo *repository.LikeRepository,
	commentRepo *repository.CommentRepository,
	playRepo *repository.PlayHistoryRepository,
) *trackViews {
	return &trackViews{tagRepo: tagRepo, likeRepo: likeRepo, commentRepo: commentRepo, playRepo: playRepo}
}

// build viewerID 为 0 表示匿名访问，此时 IsLiked 恒为 false
func (v *trackViews) build(tracks []model.Track, viewerID int64) ([]dto.TrackInfo, error) {
	ids := make([]int64, 0, len(tracks))
	for i := range tracks {
		ids = append(ids, tracks[i].ID)
	}

	tags, err := v.tagRepo.NamesByTrackIDs(ids)
	if err != nil {
		return nil, err
	}
	likes, err := v.likeRepo.CountByTracks(ids)
	if err != nil {
		return nil, err
	}
	comments, err := v.commentRepo.CountByTracks(ids)
	if err != nil {
		return nil, err
	}
	plays, err := v.playRepo.CountByTracks(ids)
	if err != nil {
		return nil, err
	}
	liked := map[int64]bool{}
	if viewerID != 0 {
		if liked, err = v.likeRepo.LikedTrackIDs(viewerID, ids); err != nil {
			return nil, err
		}
	}

	infos := make([]dto.TrackInfo, 0, len(tracks))
	for i := range tracks {
		t := &tracks[i]
		trackTags := tags[t.ID]
		if trackTags == nil {
			trackTags = []string{}
		}
		infos = append(infos, dto.TrackInfo{
			ID:            t.ID,
			Title:         t.Title,
			ArtistName:    t.ArtistName,
			Description:   t.Description,
			FileURL:       t.FileURL,
			CoverImageURL: t.CoverImageURL,
			Duration:      t.Duration,
			Status:        t.Status,
			TrendingScore: t.TrendingScore,
			OwnerUserID:   t.OwnerUserID,
			Owner:         toUserBrief(&t.Owner),
			Tags:          trackTags,
			LikeCount:     likes[t.ID],
			CommentCount:  comments[t.ID],
			PlayCount:     plays[t.ID],
			IsLiked:       liked[t.ID],
			CreatedAt:     t.CreatedAt,
			UpdatedAt:     t.UpdatedAt,
		})
	}
	return infos, nil
}

func (v *trackViews) buildOne(track *model.Track, viewerID int64) (*dto.TrackInfo, error) {
	infos, err := v.build([]model.Track{*track}, viewerID)
	if err != nil {
		return nil, err
	}
	return &infos[0], nil
}
