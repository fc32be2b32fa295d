package model

// Tag 标签
type Tag struct {
	ID   int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"size:50;not null;uniqueIndex:uq_tags_name" json:"name"`
}

func (Tag) TableName() string {
	return "tags"
}

// TrackTag 音轨-标签关联
type TrackTag struct {
	TrackID int64 `gorm:"primaryKey;autoIncrement:false" json:"track_id"`
	TagID   int64 `gorm:"primaryKey;autoIncrement:false;index:idx_track_tags_tag_id" json:"tag_id"`
}

func (TrackTag) TableName() string {
	return "track_tags"
}
