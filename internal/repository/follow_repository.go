package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/yatube/internal/model"
)

type FollowRepository interface {
	// Create 返回是否真正插入了新边；已存在时为 false 且不报错
	Create(ctx context.Context, userID, authorID string) (bool, error)
	Delete(ctx context.Context, userID, authorID string) error
	Exists(ctx context.Context, userID, authorID string) (bool, error)
	CountFollowers(ctx context.Context, authorID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) Create(ctx context.Context, userID, authorID string) (bool, error) {
	f := &model.Follow{ID: uuid.New().String(), UserID: userID, AuthorID: authorID}
	// 幂等：重复关注命中唯一键，不报错
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(f)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, userID, authorID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&model.Follow{}).Error
}

func (r *followRepository) Exists(ctx context.Context, userID, authorID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.Follow{}).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, authorID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("author_id = ?", authorID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.Follow{}).Where("user_id = ?", userID).Count(&cnt).Error
	return cnt, err
}
