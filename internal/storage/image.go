package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// MaxImageSize 单张图片上限
const MaxImageSize = 5 << 20

const postsDir = "posts"

var (
	ErrNotImage    = errors.New("upload a valid image: the file is either not an image or corrupted")
	ErrImageTooBig = errors.New("image exceeds the 5 MiB limit")
	ErrInvalidPath = errors.New("invalid image path")

	allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp", "image/bmp"}
)

// ImageStore 把上传的图片保存在本地目录 root/posts 下，按内容嗅探类型
type ImageStore struct {
	root string
}

func NewImageStore(root string) *ImageStore { return &ImageStore{root: root} }

func (s *ImageStore) Root() string { return s.root }

// Save 校验内容为图片后落盘，返回相对路径（posts/<uuid>.<ext>）
func (s *ImageStore) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, MaxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) > MaxImageSize {
		return "", ErrImageTooBig
	}
	mt := mimetype.Detect(data)
	if !isImage(mt) {
		return "", ErrNotImage
	}

	dir := filepath.Join(s.root, postsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create media dir: %w", err)
	}
	name := uuid.New().String() + mt.Extension()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return path.Join(postsDir, name), nil
}

// Remove 删除之前 Save 返回的路径；文件不存在不算错误
func (s *ImageStore) Remove(rel string) error {
	clean := path.Clean(rel)
	if !strings.HasPrefix(clean, postsDir+"/") {
		return ErrInvalidPath
	}
	err := os.Remove(filepath.Join(s.root, filepath.FromSlash(clean)))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func isImage(mt *mimetype.MIME) bool {
	for _, t := range allowedImageTypes {
		if mt.Is(t) {
			return true
		}
	}
	return false
}
