package dto

import "time"

// PlayRecordInfo 播放记录
type PlayRecordInfo struct {
	ID       int64      `json:"id"`
	TrackID  int64      `json:"track_id"`
	PlayedAt time.Time  `json:"played_at"`
	Track    *TrackInfo `json:"track,omitempty"`
}

// PlayHistoryListData 播放记录列表
type PlayHistoryListData struct {
	History []PlayRecordInfo `json:"history"`
	Total   int64            `json:"total"`
}

// RecentlyPlayedData 最近播放的不重复音轨
type RecentlyPlayedData struct {
	Tracks []TrackInfo `json:"tracks"`
}

// PlayCountInfo 播放次数
type PlayCountInfo struct {
	TrackID   int64 `json:"track_id"`
	PlayCount int64 `json:"play_count"`
}
