package model

import "time"

// Comment 评论模型
type Comment struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;comment:评论ID" json:"id"`
	Content   string    `gorm:"type:text;not null;comment:评论内容" json:"content"`
	TrackID   int64     `gorm:"not null;index:idx_comments_track_id;comment:音轨ID" json:"track_id"`
	AuthorID  int64     `gorm:"column:user_id;not null;index:idx_comments_user_id;comment:作者ID" json:"user_id"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_comments_created_at;comment:评论时间" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`

	// 关联关系
	// 外键字段不能与 UserProfile.UserID 同名，否则会被推断为 has-one
	User UserProfile `gorm:"foreignKey:AuthorID;references:ID" json:"user,omitempty"`
}

func (Comment) TableName() string {
	return "comments"
}
