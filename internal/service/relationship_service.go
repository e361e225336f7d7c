package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/pkg/logger"
)

// FollowCounts 某用户的粉丝数与关注数
type FollowCounts struct {
	Followers int64 `json:"followers"`
	Following int64 `json:"following"`
}

// RelationshipService 关系链服务
type RelationshipService interface {
	// Follow 已关注时返回 ErrAlreadyFollowing，关注自己返回 ErrFollowSelf；两者都不会改变状态
	Follow(ctx context.Context, userID, authorID string) error
	// Unfollow 边不存在时为空操作
	Unfollow(ctx context.Context, userID, authorID string) error
	IsFollowing(ctx context.Context, userID, authorID string) (bool, error)
	Counts(ctx context.Context, userID string) (FollowCounts, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
}

func NewRelationshipService(followRepo repository.FollowRepository) RelationshipService {
	return &relationshipService{followRepo: followRepo}
}

func (s *relationshipService) Follow(ctx context.Context, userID, authorID string) error {
	if userID == authorID {
		return ErrFollowSelf
	}
	created, err := s.followRepo.Create(ctx, userID, authorID)
	if err != nil {
		return err
	}
	if !created {
		return ErrAlreadyFollowing
	}
	logger.Debug("follow created", zap.String("user", userID), zap.String("author", authorID))
	return nil
}

func (s *relationshipService) Unfollow(ctx context.Context, userID, authorID string) error {
	return s.followRepo.Delete(ctx, userID, authorID)
}

func (s *relationshipService) IsFollowing(ctx context.Context, userID, authorID string) (bool, error) {
	if userID == "" || userID == authorID {
		return false, nil
	}
	return s.followRepo.Exists(ctx, userID, authorID)
}

func (s *relationshipService) Counts(ctx context.Context, userID string) (FollowCounts, error) {
	followers, err := s.followRepo.CountFollowers(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	following, err := s.followRepo.CountFollowing(ctx, userID)
	if err != nil {
		return FollowCounts{}, err
	}
	return FollowCounts{Followers: followers, Following: following}, nil
}
