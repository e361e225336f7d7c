package service

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrForbidden = errors.New("forbidden")

	ErrFollowSelf       = errors.New("cannot follow self")
	ErrAlreadyFollowing = errors.New("already following")

	ErrSlugTaken    = errors.New("group slug already taken")
	ErrInvalidSlug  = errors.New("slug may contain only latin letters, digits, hyphens and underscores")
	ErrUnknownGroup = errors.New("selected group does not exist")
	ErrEmptyTitle   = errors.New("group title is required")

	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidUsername    = errors.New("username may contain only letters, digits and @/./+/-/_")
	ErrReservedUsername   = errors.New("username is reserved")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// notFound 把 gorm 的未找到错误折叠成 ErrNotFound
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
