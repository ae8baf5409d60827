// Package localfs はローカルディスクへの添付ファイル保存を提供します。
package localfs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"findmyplugin_backend/internal/feature/requests/usecase"
)

// Store はアップロードディレクトリ配下にファイルを保存します。
// 保存名は `<unixミリ秒>-<サニタイズ済み元ファイル名>` 形式です。
type Store struct {
	dir string
	now func() time.Time
}

var _ usecase.FileStore = (*Store)(nil)

// NewStore は指定ディレクトリを作成してStoreの新しいインスタンスを生成します。
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Store{dir: dir, now: time.Now}, nil
}

// Save はファイルを書き込み、保存名と公開URLを返します。
func (s *Store) Save(filename string, data []byte) (string, string, error) {
	storedName := fmt.Sprintf("%d-%s", s.now().UnixMilli(), sanitize(filename))
	path := filepath.Join(s.dir, storedName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", "", fmt.Errorf("failed to write upload: %w", err)
	}
	return storedName, "/uploads/" + storedName, nil
}

// sanitize はパス区切りを取り除き、空白をアンダースコアに置き換えます。
func sanitize(name string) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	base = strings.Join(strings.Fields(base), "_")
	if base == "" || base == "." || base == ".." {
		return "file"
	}
	return base
}
