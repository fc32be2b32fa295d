package dto

import "time"

// UserProfileCreateRequest 创建用户资料请求
type UserProfileCreateRequest struct {
	UserID          string  `json:"user_id" binding:"required,max=255"`
	Nickname        string  `json:"nickname" binding:"required,min=1,max=100"`
	Bio             *string `json:"bio" binding:"omitempty,max=1000"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,max=500"`
}

// UserProfileUpdateRequest 部分更新，只修改出现的字段
type UserProfileUpdateRequest struct {
	Nickname        *string `json:"nickname" binding:"omitempty,min=1,max=100"`
	Bio             *string `json:"bio" binding:"omitempty,max=1000"`
	ProfileImageURL *string `json:"profile_image_url" binding:"omitempty,max=500"`
}

// UserProfileInfo 用户资料
type UserProfileInfo struct {
	ID              int64     `json:"id"`
	UserID          string    `json:"user_id"`
	Nickname        string    `json:"nickname"`
	Bio             *string   `json:"bio"`
	ProfileImageURL *string   `json:"profile_image_url"`
	IsActive        bool      `json:"is_active"`
	FollowerCount   int64     `json:"follower_count"`
	FollowingCount  int64     `json:"following_count"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// UserBrief 列表中嵌入的用户简要信息
type UserBrief struct {
	ID              int64   `json:"id"`
	Nickname        string  `json:"nickname"`
	ProfileImageURL *string `json:"profile_image_url"`
}

// UserListData 用户列表
type UserListData struct {
	Users []UserBrief `json:"users"`
	Total int64       `json:"total"`
}
