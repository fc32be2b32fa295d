package model

import "time"

// Follow 关注关系，(follower_id, following_id) 唯一
type Follow struct {
	FollowerID  int64     `gorm:"primaryKey;autoIncrement:false;comment:关注者ID" json:"follower_id"`
	FollowingID int64     `gorm:"primaryKey;autoIncrement:false;index:idx_follows_following_id;comment:被关注者ID" json:"following_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime;comment:关注时间" json:"created_at"`
}

func (Follow) TableName() string {
	return "follows"
}
