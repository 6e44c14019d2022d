package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenStore 本地Token文件，内容为Token明文，文件不存在表示未登录
type TokenStore struct {
	path string
}

// NewTokenStore 创建Token文件存储
func NewTokenStore(path string) *TokenStore {
	return &TokenStore{path: path}
}

// Path 文件路径
func (s *TokenStore) Path() string {
	return s.path
}

// Load 读取Token，文件不存在或为空时返回空字符串
func (s *TokenStore) Load() (string, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("读取Token文件失败: %w", err)
	}

	token := strings.TrimSpace(string(raw))
	if strings.ContainsAny(token, " \t\r\n") {
		return "", fmt.Errorf("Token文件内容损坏: %s", s.path)
	}
	return token, nil
}

// Save 写入Token，只有当前用户可读写
func (s *TokenStore) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("创建Token目录失败: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(token), 0o600); err != nil {
		return fmt.Errorf("写入Token文件失败: %w", err)
	}
	return nil
}

// Delete 删除Token文件，文件不存在时不报错
func (s *TokenStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("删除Token文件失败: %w", err)
	}
	return nil
}
