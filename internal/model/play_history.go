package model

import "time"

// PlayHistory 播放记录，只追加
type PlayHistory struct {
	ID       int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID   int64     `gorm:"not null;index:idx_play_history_user_played,priority:1;comment:用户ID" json:"user_id"`
	TrackID  int64     `gorm:"not null;index:idx_play_history_track_id;comment:音轨ID" json:"track_id"`
	PlayedAt time.Time `gorm:"not null;index:idx_play_history_user_played,priority:2;index:idx_play_history_played_at;comment:播放时间" json:"played_at"`
}

func (PlayHistory) TableName() string {
	return "play_history"
}
