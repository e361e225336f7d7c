package slug

import (
	"errors"
	"strings"

	gosimple "github.com/gosimple/slug"
)

// MaxLength 分组 slug 的最大长度
const MaxLength = 100

var ErrEmpty = errors.New("slug cannot be derived from an empty title")

// FromTitle 将标题音译为拉丁字母、小写、仅含 [a-z0-9-_] 的 slug，截断至 MaxLength。
// 同一标题总是得到同一 slug。
func FromTitle(title string) (string, error) {
	s := gosimple.Make(title)
	if len(s) > MaxLength {
		s = strings.TrimRight(s[:MaxLength], "-_")
	}
	if s == "" {
		return "", ErrEmpty
	}
	return s, nil
}

// Valid 校验调用方显式传入的 slug
func Valid(s string) bool {
	return s != "" && len(s) <= MaxLength && gosimple.IsSlug(s)
}
