package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/d60-Lab/yatube/internal/model"
	"github.com/d60-Lab/yatube/internal/repository"
	"github.com/d60-Lab/yatube/internal/storage"
	"github.com/d60-Lab/yatube/pkg/logger"
)

const minPasswordLen = 8

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}_.@+-]{1,150}$`)

// 与顶层路由冲突的用户名
var reservedUsernames = map[string]bool{
	"new": true, "follow": true, "search": true, "group": true,
	"auth": true, "swagger": true, "media": true,
}

type UserService interface {
	Register(ctx context.Context, username, email, password string) (*model.User, error)
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByUsername(ctx context.Context, username string) (*model.User, error)
	// Delete 级联删除用户的帖子、评论与关注关系
	Delete(ctx context.Context, username string) error
}

type userService struct {
	users   repository.UserRepository
	janitor *storage.Janitor
}

func NewUserService(users repository.UserRepository, janitor *storage.Janitor) UserService {
	return &userService{users: users, janitor: janitor}
}

func (s *userService) Register(ctx context.Context, username, email, password string) (*model.User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}
	if reservedUsernames[username] {
		return nil, ErrReservedUsername
	}
	if len(password) < minPasswordLen {
		return nil, ErrWeakPassword
	}
	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, ErrUsernameTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &model.User{Username: username, Email: email, Password: string(hash)}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	logger.Info("user registered", zap.String("username", username))
	return u, nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

func (s *userService) GetByID(ctx context.Context, id string) (*model.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

func (s *userService) Delete(ctx context.Context, username string) error {
	u, err := s.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	images, err := s.users.DeleteCascade(ctx, u.ID)
	if err != nil {
		return notFound(err)
	}
	if s.janitor != nil {
		s.janitor.Enqueue(images...)
	}
	logger.Info("user deleted", zap.String("username", username), zap.Int("images", len(images)))
	return nil
}
