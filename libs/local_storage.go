package libs

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorage writes uploads below Dir and serves them under URLPrefix.
type LocalStorage struct {
	Dir       string
	SubDir    string
	URLPrefix string
}

func (s *LocalStorage) Save(ctx context.Context, header *multipart.FileHeader) (string, error) {
	folder := filepath.Join(s.Dir, s.SubDir)
	if err := os.MkdirAll(folder, os.ModePerm); err != nil {
		return "", fmt.Errorf("failed to create upload folder: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := fmt.Sprintf("%d%s", time.Now().UnixNano(), ext)

	src, err := header.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(folder, filename))
	if err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("failed to save upload: %w", err)
	}

	return path.Join(s.URLPrefix, s.SubDir, filename), nil
}
