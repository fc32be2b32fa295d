package dto

import "time"

// PlaylistCreateRequest 创建歌单，IsPublic 缺省为公开
type PlaylistCreateRequest struct {
	Name        string  `json:"name" binding:"required,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public"`
}

// PlaylistUpdateRequest 部分更新
type PlaylistUpdateRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	IsPublic    *bool   `json:"is_public"`
}

// PlaylistInfo 歌单信息
type PlaylistInfo struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description"`
	IsPublic    bool       `json:"is_public"`
	OwnerUserID int64      `json:"owner_user_id"`
	Owner       *UserBrief `json:"owner,omitempty"`
	TrackCount  int64      `json:"track_count"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PlaylistDetail 歌单详情，Tracks 按位置升序
type PlaylistDetail struct {
	PlaylistInfo
	Tracks []PlaylistTrackInfo `json:"tracks"`
}

// PlaylistTrackInfo 歌单中的一条
type PlaylistTrackInfo struct {
	TrackOrder int       `json:"track_order"`
	Track      TrackInfo `json:"track"`
}

// PlaylistListData 歌单列表
type PlaylistListData struct {
	Playlists []PlaylistInfo `json:"playlists"`
	Total     int64          `json:"total"`
}

// PlaylistAddTrackRequest 添加音轨
type PlaylistAddTrackRequest struct {
	TrackID int64 `json:"track_id" binding:"required,gt=0"`
}

// PlaylistReorderRequest 覆盖某条目的位置
type PlaylistReorderRequest struct {
	TrackID  int64 `json:"track_id" binding:"required,gt=0"`
	NewOrder *int  `json:"new_order" binding:"required,gte=0"`
}

// PlaylistTrackResult 添加/移除/排序的结果
type PlaylistTrackResult struct {
	PlaylistID int64 `json:"playlist_id"`
	TrackID    int64 `json:"track_id"`
	TrackOrder int   `json:"track_order"`
	TrackCount int64 `json:"track_count"`
}
