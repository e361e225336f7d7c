package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
)

type GroupRepository interface {
	Create(ctx context.Context, g *model.Group) error
	GetByID(ctx context.Context, id string) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	List(ctx context.Context) ([]*model.Group, error)
	// DeleteBySlug 删除分组，所属帖子保留，group_id 置空
	DeleteBySlug(ctx context.Context, slug string) error
}

type groupRepository struct{ db *gorm.DB }

func NewGroupRepository(db *gorm.DB) GroupRepository { return &groupRepository{db: db} }

func (r *groupRepository) Create(ctx context.Context, g *model.Group) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *groupRepository) GetByID(ctx context.Context, id string) (*model.Group, error) {
	var g model.Group
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) GetBySlug(ctx context.Context, slug string) (*model.Group, error) {
	var g model.Group
	if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *groupRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Group{}).Where("slug = ?", slug).Count(&cnt).Error
	return cnt > 0, err
}

func (r *groupRepository) List(ctx context.Context) ([]*model.Group, error) {
	var res []*model.Group
	err := r.db.WithContext(ctx).Order("title").Find(&res).Error
	return res, err
}

func (r *groupRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var g model.Group
		if err := tx.Where("slug = ?", slug).First(&g).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Post{}).
			Where("group_id = ?", g.ID).
			UpdateColumn("group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&g).Error
	})
}
