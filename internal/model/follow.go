package model

import "time"

// Follow 关注关系（UserID 关注 AuthorID）
type Follow struct {
	ID       string `gorm:"primaryKey;type:varchar(36)"`
	UserID   string `gorm:"type:varchar(36);not null;index:idx_follow_pair,unique"`
	AuthorID string `gorm:"type:varchar(36);not null;index:idx_follow_pair,unique;index:idx_follow_author"`
	// 复合唯一键，避免重复关注
	// idx_follow_pair = (user_id, author_id)
	CreatedAt time.Time
}

func (Follow) TableName() string { return "follows" }
