package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, c *model.Comment) error
	GetByID(ctx context.Context, id string) (*model.Comment, error)
	// ListByPost 按创建时间正序
	ListByPost(ctx context.Context, postID string) ([]*model.Comment, error)
	Delete(ctx context.Context, id string) error
}

type commentRepository struct{ db *gorm.DB }

func NewCommentRepository(db *gorm.DB) CommentRepository { return &commentRepository{db: db} }

func (r *commentRepository) Create(ctx context.Context, c *model.Comment) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(c).Error
}

func (r *commentRepository) GetByID(ctx context.Context, id string) (*model.Comment, error) {
	var c model.Comment
	if err := r.db.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *commentRepository) ListByPost(ctx context.Context, postID string) ([]*model.Comment, error) {
	var res []*model.Comment
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&res).Error
	return res, err
}

func (r *commentRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Comment{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
