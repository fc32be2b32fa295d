package model

import "time"

// 音轨状态
const (
	TrackStatusProcessing = "processing"
	TrackStatusReady      = "ready"
	TrackStatusFailed     = "failed"
)

// Track 音轨模型
type Track struct {
	ID            int64     `gorm:"primaryKey;autoIncrement;comment:音轨标识" json:"id"`
	Title         string    `gorm:"size:200;not null;index:idx_tracks_title;comment:标题" json:"title"`
	ArtistName    string    `gorm:"size:100;index:idx_tracks_artist_name;comment:艺人名" json:"artist_name"`
	Description   *string   `gorm:"type:text;comment:描述" json:"description"`
	FileURL       string    `gorm:"size:500;not null;comment:音频地址" json:"file_url"`
	CoverImageURL *string   `gorm:"size:500;comment:封面地址" json:"cover_image_url"`
	Duration      *float64  `gorm:"comment:时长（秒）" json:"duration"`
	Status        string    `gorm:"size:20;not null;default:'processing';index:idx_tracks_status;comment:处理状态" json:"status"`
	TrendingScore float64   `gorm:"not null;default:0;index:idx_tracks_trending_score;comment:热度" json:"trending_score"`
	OwnerUserID   int64     `gorm:"not null;index:idx_tracks_owner_user_id;comment:上传者ID" json:"owner_user_id"`
	CreatedAt     time.Time `gorm:"autoCreateTime;index:idx_tracks_created_at;comment:创建时间" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	Owner UserProfile `gorm:"foreignKey:OwnerUserID;references:ID" json:"owner,omitempty"`
}

func (Track) TableName() string {
	return "tracks"
}

// ValidTrackStatus 校验状态取值
func ValidTrackStatus(status string) bool {
	switch status {
	case TrackStatusProcessing, TrackStatusReady, TrackStatusFailed:
		return true
	}
	return false
}
