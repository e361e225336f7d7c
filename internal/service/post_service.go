package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/cache"
	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/logger"
	"github.com/d60-Lab/yatube/pkg/validate"
)

// PostInput 创建/编辑帖子的表单数据
type PostInput struct {
	Text    string
	GroupID string // 空表示不属于任何分组
	// Image 新上传图片的相对路径；编辑时为空表示保留原图，除非 ClearImage
	Image      string
	ClearImage bool
}

type PostService interface {
	// Create 不会使首页缓存失效，新帖在缓存过期后出现
	Create(ctx context.Context, authorID string, in PostInput) (*model.Post, error)
	// Get 帖子必须属于 username，否则 ErrNotFound
	Get(ctx context.Context, username, postID string) (*model.Post, error)
	Update(ctx context.Context, actorID, username, postID string, in PostInput) (*model.Post, error)
	Delete(ctx context.Context, actorID, username, postID string) error

	AddComment(ctx context.Context, actorID, username, postID, text string) (*model.Comment, error)
	Comments(ctx context.Context, postID string) ([]*model.Comment, error)
	// DeleteComment 评论作者或帖子作者可以删除
	DeleteComment(ctx context.Context, actorID, username, postID, commentID string) error
}

type postService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	groups   repository.GroupRepository
	cache    cache.Cache
	janitor  *storage.Janitor
}

func NewPostService(
	posts repository.PostRepository,
	comments repository.CommentRepository,
	groups repository.GroupRepository,
	c cache.Cache,
	janitor *storage.Janitor,
) PostService {
	return &postService{posts: posts, comments: comments, groups: groups, cache: c, janitor: janitor}
}

func (s *postService) resolveGroup(ctx context.Context, groupID string) (*string, error) {
	if groupID == "" {
		return nil, nil
	}
	g, err := s.groups.GetByID(ctx, groupID)
	if err != nil {
		if errors.Is(notFound(err), ErrNotFound) {
			return nil, ErrUnknownGroup
		}
		return nil, err
	}
	return &g.ID, nil
}

func (s *postService) Create(ctx context.Context, authorID string, in PostInput) (*model.Post, error) {
	text, err := validate.NotEmpty(in.Text)
	if err != nil {
		return nil, err
	}
	groupID, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}
	p := &model.Post{Text: text, AuthorID: authorID, GroupID: groupID, Image: in.Image}
	if err := s.posts.Create(ctx, p); err != nil {
		return nil, err
	}
	logger.Info("post created", zap.String("post", p.ID), zap.String("author", authorID))
	return p, nil
}

func (s *postService) Get(ctx context.Context, username, postID string) (*model.Post, error) {
	p, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, notFound(err)
	}
	if p.Author == nil || p.Author.Username != username {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *postService) Update(ctx context.Context, actorID, username, postID string, in PostInput) (*model.Post, error) {
	p, err := s.Get(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	if p.AuthorID != actorID {
		return nil, ErrForbidden
	}
	text, err := validate.NotEmpty(in.Text)
	if err != nil {
		return nil, err
	}
	groupID, err := s.resolveGroup(ctx, in.GroupID)
	if err != nil {
		return nil, err
	}

	var stale string
	switch {
	case in.Image != "":
		stale, p.Image = p.Image, in.Image
	case in.ClearImage:
		stale, p.Image = p.Image, ""
	}
	p.Text = text
	p.GroupID = groupID
	p.Group = nil
	if err := s.posts.Save(ctx, p); err != nil {
		return nil, err
	}
	if s.janitor != nil {
		s.janitor.Enqueue(stale)
	}
	InvalidateHomeFeed(ctx, s.cache)
	return p, nil
}

func (s *postService) Delete(ctx context.Context, actorID, username, postID string) error {
	p, err := s.Get(ctx, username, postID)
	if err != nil {
		return err
	}
	if p.AuthorID != actorID {
		return ErrForbidden
	}
	if err := s.posts.Delete(ctx, p.ID); err != nil {
		return notFound(err)
	}
	if s.janitor != nil {
		s.janitor.Enqueue(p.Image)
	}
	InvalidateHomeFeed(ctx, s.cache)
	logger.Info("post deleted", zap.String("post", p.ID))
	return nil
}

func (s *postService) AddComment(ctx context.Context, actorID, username, postID, text string) (*model.Comment, error) {
	p, err := s.Get(ctx, username, postID)
	if err != nil {
		return nil, err
	}
	text, err = validate.NotEmpty(text)
	if err != nil {
		return nil, err
	}
	c := &model.Comment{PostID: p.ID, AuthorID: actorID, Text: text}
	if err := s.comments.Create(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *postService) Comments(ctx context.Context, postID string) ([]*model.Comment, error) {
	return s.comments.ListByPost(ctx, postID)
}

func (s *postService) DeleteComment(ctx context.Context, actorID, username, postID, commentID string) error {
	p, err := s.Get(ctx, username, postID)
	if err != nil {
		return err
	}
	c, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return notFound(err)
	}
	if c.PostID != p.ID {
		return ErrNotFound
	}
	if c.AuthorID != actorID && p.AuthorID != actorID {
		return ErrForbidden
	}
	return notFound(s.comments.Delete(ctx, c.ID))
}
