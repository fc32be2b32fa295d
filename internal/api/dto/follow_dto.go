package dto

// FollowResult 关注/取关操作结果
type FollowResult struct {
	FollowerID     int64 `json:"follower_id"`
	FollowingID    int64 `json:"following_id"`
	IsFollowing    bool  `json:"is_following"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}

// FollowStatus 双向关注状态，计数属于目标用户
type FollowStatus struct {
	IsFollowing    bool  `json:"is_following"`
	IsFollowedBy   bool  `json:"is_followed_by"`
	FollowerCount  int64 `json:"follower_count"`
	FollowingCount int64 `json:"following_count"`
}
