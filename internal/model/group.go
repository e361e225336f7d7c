package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/pkg/slug"
)

// Group 帖子分组，创建后不可修改
type Group struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `gorm:"type:varchar(200);not null" json:"title"`
	Slug        string    `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug"`
	Description string    `gorm:"type:text" json:"description"`
	CreatedAt   time.Time `json:"-"`
}

func (Group) TableName() string { return "groups" }

// BeforeCreate 未指定 slug 时从标题派生
func (g *Group) BeforeCreate(*gorm.DB) error {
	if g.Slug != "" {
		return nil
	}
	s, err := slug.FromTitle(g.Title)
	if err != nil {
		return err
	}
	g.Slug = s
	return nil
}
