package dto

import "time"

// CommentCreateRequest 发表评论
type CommentCreateRequest struct {
	TrackID int64  `json:"track_id" binding:"required,gt=0"`
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// CommentUpdateRequest 修改评论
type CommentUpdateRequest struct {
	Content string `json:"content" binding:"required,min=1,max=2000"`
}

// CommentInfo 评论信息
type CommentInfo struct {
	ID        int64      `json:"id"`
	TrackID   int64      `json:"track_id"`
	UserID    int64      `json:"user_id"`
	Content   string     `json:"content"`
	User      *UserBrief `json:"user,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CommentListData 评论列表
type CommentListData struct {
	Comments []CommentInfo `json:"comments"`
	Total    int64         `json:"total"`
}
