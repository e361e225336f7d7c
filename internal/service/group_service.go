package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/slug"
)

// GroupInput 创建分组的参数；Slug 为空时由标题派生
type GroupInput struct {
	Title       string
	Slug        string
	Description string
}

type GroupService interface {
	Create(ctx context.Context, in GroupInput) (*model.Group, error)
	GetBySlug(ctx context.Context, slug string) (*model.Group, error)
	List(ctx context.Context) ([]*model.Group, error)
	// Delete 删除分组，帖子保留但不再属于任何分组
	Delete(ctx context.Context, slug string) error
}

type groupService struct {
	groups repository.GroupRepository
}

func NewGroupService(groups repository.GroupRepository) GroupService {
	return &groupService{groups: groups}
}

func (s *groupService) Create(ctx context.Context, in GroupInput) (*model.Group, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, ErrEmptyTitle
	}
	sl := in.Slug
	if sl == "" {
		derived, err := slug.FromTitle(title)
		if err != nil {
			return nil, ErrInvalidSlug
		}
		sl = derived
	} else if !slug.Valid(sl) {
		return nil, ErrInvalidSlug
	}

	exists, err := s.groups.SlugExists(ctx, sl)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrSlugTaken
	}

	g := &model.Group{Title: title, Slug: sl, Description: in.Description}
	if err := s.groups.Create(ctx, g); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		return nil, err
	}
	logger.Info("group created", zap.String("slug", g.Slug))
	return g, nil
}

func (s *groupService) GetBySlug(ctx context.Context, sl string) (*model.Group, error) {
	g, err := s.groups.GetBySlug(ctx, sl)
	if err != nil {
		return nil, notFound(err)
	}
	return g, nil
}

func (s *groupService) List(ctx context.Context) ([]*model.Group, error) {
	return s.groups.List(ctx)
}

func (s *groupService) Delete(ctx context.Context, sl string) error {
	if err := s.groups.DeleteBySlug(ctx, sl); err != nil {
		return notFound(err)
	}
	logger.Info("group deleted", zap.String("slug", sl))
	return nil
}
