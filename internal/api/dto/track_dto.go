package dto

import "time"

// TrackInfo 音轨信息（含统计）
type TrackInfo struct {
	ID            int64      `json:"id"`
	Title         string     `json:"title"`
	ArtistName    string     `json:"artist_name"`
	Description   *string    `json:"description"`
	FileURL       string     `json:"file_url"`
	CoverImageURL *string    `json:"cover_image_url"`
	Duration      *float64   `json:"duration"`
	Status        string     `json:"status"`
	TrendingScore float64    `json:"trending_score"`
	OwnerUserID   int64      `json:"owner_user_id"`
	Owner         *UserBrief `json:"owner,omitempty"`
	Tags          []string   `json:"tags"`
	LikeCount     int64      `json:"like_count"`
	CommentCount  int64      `json:"comment_count"`
	PlayCount     int64      `json:"play_count"`
	IsLiked       bool       `json:"is_liked"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// TrackListData 音轨列表
type TrackListData struct {
	Tracks []TrackInfo `json:"tracks"`
	Total  int64       `json:"total"`
	Skip   int         `json:"skip"`
	Limit  int         `json:"limit"`
}

// TrackUpdateRequest 部分更新，仅上传者可用
type TrackUpdateRequest struct {
	Title         *string   `json:"title" binding:"omitempty,min=1,max=200"`
	Description   *string   `json:"description" binding:"omitempty,max=5000"`
	CoverImageURL *string   `json:"cover_image_url" binding:"omitempty,max=500"`
	Duration      *float64  `json:"duration" binding:"omitempty,gte=0"`
	Status        *string   `json:"status" binding:"omitempty,oneof=processing ready failed"`
	Tags          *[]string `json:"tags" binding:"omitempty,max=20,dive,min=1,max=50"`
}
