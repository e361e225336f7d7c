package model

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/pkg/validate"
)

// Post 帖子；作者删除时级联删除，分组删除时 group_id 置空
type Post struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	SearchText string    `gorm:"type:text" json:"-"` // lower(text)，用于大小写无关搜索
	AuthorID   string    `gorm:"type:varchar(36);index:idx_post_author;not null" json:"-"`
	Author     *User     `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"author,omitempty"`
	GroupID    *string   `gorm:"type:varchar(36);index:idx_post_group" json:"-"`
	Group      *Group    `gorm:"foreignKey:GroupID;constraint:OnDelete:SET NULL" json:"group,omitempty"`
	Image      string    `gorm:"type:varchar(255)" json:"image,omitempty"`
	CreatedAt  time.Time `gorm:"index:idx_post_created" json:"pub_date"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (Post) TableName() string { return "posts" }

// BeforeSave 数据层的非空校验，与表单层使用同一规则
func (p *Post) BeforeSave(*gorm.DB) error {
	if _, err := validate.NotEmpty(p.Text); err != nil {
		return err
	}
	p.SearchText = strings.ToLower(p.Text)
	return nil
}
