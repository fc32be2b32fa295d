// Package storage 本地文件存储，未配置对象存储时承接上传文件。
package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

var (
	ErrTooLarge    = errors.New("file exceeds size limit")
	ErrInvalidPath = errors.New("invalid file path")
)

// URLPrefix 本地文件对外暴露的路径前缀
const URLPrefix = "/uploads"

// LocalStore 把文件写到 Root 目录下
type LocalStore struct {
	Root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{Root: root}
}

// resolve 把相对 key 转换为磁盘路径，拒绝越出 Root 的 key
func (s *LocalStore) resolve(key string) (string, error) {
	clean := path.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", ErrInvalidPath
	}
	return filepath.Join(s.Root, filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}

// Save 写入文件，超过 maxBytes 时删除半成品并返回 ErrTooLarge
func (s *LocalStore) Save(key string, r io.Reader, maxBytes int64) (int64, error) {
	dst, err := s.resolve(key)
	if err != nil {
		return 0, err
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return 0, fmt.Errorf("create upload dir: %w", err)
	}

	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create upload file: %w", err)
	}

	n, copyErr := io.Copy(f, io.LimitReader(r, maxBytes+1))
	closeErr := f.Close()
	switch {
	case copyErr != nil:
		_ = os.Remove(dst)
		return 0, fmt.Errorf("write upload file: %w", copyErr)
	case n > maxBytes:
		_ = os.Remove(dst)
		return 0, ErrTooLarge
	case closeErr != nil:
		_ = os.Remove(dst)
		return 0, fmt.Errorf("close upload file: %w", closeErr)
	}
	return n, nil
}

// Open 按 key 打开文件
func (s *LocalStore) Open(key string) (*os.File, error) {
	p, err := s.resolve(key)
	if err != nil {
		return nil, err
	}
	return os.Open(p)
}

// Path 返回 key 对应的磁盘路径
func (s *LocalStore) Path(key string) (string, error) {
	return s.resolve(key)
}

// URL 返回 key 对外的访问路径
func (s *LocalStore) URL(key string) string {
	return URLPrefix + "/" + strings.TrimPrefix(key, "/")
}

// KeyFromURL 从 /uploads/... 访问路径还原 key；非本地地址返回 false
func KeyFromURL(fileURL string) (string, bool) {
	if !strings.HasPrefix(fileURL, URLPrefix+"/") {
		return "", false
	}
	return strings.TrimPrefix(fileURL, URLPrefix+"/"), true
}
