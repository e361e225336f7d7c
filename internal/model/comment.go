package model

import (
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/pkg/validate"
)

// Comment 评论，按创建时间正序展示
type Comment struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	PostID    string    `gorm:"type:varchar(36);index:idx_comment_post;not null" json:"post_id"`
	Post      *Post     `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  string    `gorm:"type:varchar(36);index:idx_comment_author;not null" json:"-"`
	Author    *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	Text      string    `gorm:"type:text;not null" json:"text"`
	CreatedAt time.Time `gorm:"index:idx_comment_post" json:"created"`
}

func (Comment) TableName() string { return "comments" }

func (c *Comment) BeforeSave(*gorm.DB) error {
	_, err := validate.NotEmpty(c.Text)
	return err
}
