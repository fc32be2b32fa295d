package model

import "time"

// UserProfile 用户资料，UserID 为外部身份提供方的 sub
type UserProfile struct {
	ID              int64     `gorm:"primaryKey;autoIncrement;comment:用户标识" json:"id"`
	UserID          string    `gorm:"size:255;not null;uniqueIndex:uq_user_profiles_user_id;comment:外部身份ID" json:"user_id"`
	Nickname        string    `gorm:"size:100;not null;index:idx_user_profiles_nickname;comment:昵称" json:"nickname"`
	Bio             *string   `gorm:"type:text;comment:简介" json:"bio"`
	ProfileImageURL *string   `gorm:"size:500;comment:头像地址" json:"profile_image_url"`
	IsActive        bool      `gorm:"not null;comment:是否允许登录" json:"is_active"`
	CreatedAt       time.Time `gorm:"autoCreateTime;comment:创建时间" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime;comment:更新时间" json:"updated_at"`
}

func (UserProfile) TableName() string {
	return "user_profiles"
}
