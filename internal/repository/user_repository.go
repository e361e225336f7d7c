package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// DeleteCascade 删除用户及其帖子、评论、双向关注边，返回需要清理的图片路径
	DeleteCascade(ctx context.Context, userID string) ([]string, error)
}

type userRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) UserRepository { return &userRepository{db: db} }

func (r *userRepository) Create(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.New().String()
	}
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) DeleteCascade(ctx context.Context, userID string) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var postIDs []string
		if err := tx.Model(&model.Post{}).Where("author_id = ?", userID).Pluck("id", &postIDs).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Post{}).
			Where("author_id = ? AND image <> ''", userID).
			Pluck("image", &images).Error; err != nil {
			return err
		}
		if len(postIDs) > 0 {
			if err := tx.Where("post_id IN ?", postIDs).Delete(&model.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("author_id = ?", userID).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ? OR author_id = ?", userID, userID).Delete(&model.Follow{}).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", userID).Delete(&model.Post{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", userID).Delete(&model.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}
