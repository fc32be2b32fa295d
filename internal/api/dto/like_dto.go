package dto

import "time"

// LikeToggleRequest 点赞切换
type LikeToggleRequest struct {
	TrackID int64 `json:"track_id" binding:"required,gt=0"`
}

// LikeToggleResult 切换后的状态
type LikeToggleResult struct {
	Message   string `json:"message"`
	LikeCount int64  `json:"like_count"`
	IsLiked   bool   `json:"is_liked"`
}

// LikeStatus 点赞状态
type LikeStatus struct {
	TrackID   int64 `json:"track_id"`
	LikeCount int64 `json:"like_count"`
	IsLiked   bool  `json:"is_liked"`
}

// LikeInfo 点赞记录
type LikeInfo struct {
	TrackID   int64      `json:"track_id"`
	UserID    int64      `json:"user_id"`
	User      *UserBrief `json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// TrackLikeListData 音轨点赞列表
type TrackLikeListData struct {
	Likes []LikeInfo `json:"likes"`
	Total int64      `json:"total"`
}
