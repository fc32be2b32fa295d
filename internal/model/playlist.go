package model

import "time"

// Playlist 歌单
type Playlist struct {
	ID          int64     `gorm:"primaryKey;autoIncrement;comment:歌单ID" json:"id"`
	Name        string    `gorm:"size:100;not null;comment:歌单名" json:"name"`
	Description *string   `gorm:"type:text;comment:描述" json:"description"`
	IsPublic    bool      `gorm:"not null;comment:是否公开" json:"is_public"`
	OwnerUserID int64     `gorm:"not null;index:idx_playlists_owner_user_id;comment:创建者ID" json:"owner_user_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Owner UserProfile `gorm:"foreignKey:OwnerUserID;references:ID" json:"owner,omitempty"`
}

func (Playlist) TableName() string {
	return "playlists"
}

// PlaylistTrack 歌单-音轨关联，TrackOrder 为排序位置
type PlaylistTrack struct {
	PlaylistID int64 `gorm:"primaryKey;autoIncrement:false;comment:歌单ID" json:"playlist_id"`
	TrackID    int64 `gorm:"primaryKey;autoIncrement:false;index:idx_playlist_tracks_track_id;comment:音轨ID" json:"track_id"`
	TrackOrder int   `gorm:"not null;default:0;comment:排序位置" json:"track_order"`
}

func (PlaylistTrack) TableName() string {
	return "playlist_tracks"
}
