package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube/internal/model"
)

// PostFilter 各个 feed 的筛选条件，空字段表示不过滤
type PostFilter struct {
	AuthorID string
	GroupID  string
	// FollowerID 只保留 FollowerID 所关注作者的帖子
	FollowerID string
	// Query 大小写无关的子串匹配
	Query string
}

func (f PostFilter) apply(db *gorm.DB) *gorm.DB {
	if f.AuthorID != "" {
		db = db.Where("posts.author_id = ?", f.AuthorID)
	}
	if f.GroupID != "" {
		db = db.Where("posts.group_id = ?", f.GroupID)
	}
	if f.FollowerID != "" {
		db = db.Where("posts.author_id IN (SELECT author_id FROM follows WHERE user_id = ?)", f.FollowerID)
	}
	if f.Query != "" {
		db = db.Where(`posts.search_text LIKE ? ESCAPE '\'`, "%"+escapeLike(strings.ToLower(f.Query))+"%")
	}
	return db
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

type PostRepository interface {
	Create(ctx context.Context, p *model.Post) error
	Save(ctx context.Context, p *model.Post) error
	GetByID(ctx context.Context, id string) (*model.Post, error)
	Count(ctx context.Context, f PostFilter) (int64, error)
	// List 按创建时间倒序，id 作为稳定的次序键
	List(ctx context.Context, f PostFilter, offset, limit int) ([]*model.Post, error)
	// Delete 删除帖子及其评论
	Delete(ctx context.Context, id string) error
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, p *model.Post) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error
}

func (r *postRepository) Save(ctx context.Context, p *model.Post) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error
}

func (r *postRepository) GetByID(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Group").
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) Count(ctx context.Context, f PostFilter) (int64, error) {
	var cnt int64
	err := f.apply(r.db.WithContext(ctx).Model(&model.Post{})).Count(&cnt).Error
	return cnt, err
}

func (r *postRepository) List(ctx context.Context, f PostFilter, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := f.apply(r.db.WithContext(ctx).Model(&model.Post{})).
		Preload("Author").
		Preload("Group").
		Order("posts.created_at DESC").
		Order("posts.id DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Post{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
