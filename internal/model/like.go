package model

import "time"

// Like 点赞，(track_id, user_id) 唯一
type Like struct {
	TrackID   int64     `gorm:"primaryKey;autoIncrement:false;comment:音轨ID" json:"track_id"`
	UserID    int64     `gorm:"primaryKey;autoIncrement:false;index:idx_likes_user_id;comment:用户ID" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;comment:点赞时间" json:"created_at"`

	// 关联关系
	User UserProfile `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (Like) TableName() string {
	return "likes"
}
