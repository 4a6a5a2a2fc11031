package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"taskboard/domain/ports"
)

// LocalStorage keeps attachments on the local filesystem. Good enough for
// development and single-node deployments.
type LocalStorage struct {
	basePath string
	baseURL  string
}

type LocalStorageConfig struct {
	BasePath string // ./uploads
	BaseURL  string // http://localhost:8080/files
}

func NewLocalStorage(cfg LocalStorageConfig) (ports.StoragePort, error) {
	if err := os.MkdirAll(cfg.BasePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	return &LocalStorage{
		basePath: cfg.BasePath,
		baseURL:  strings.TrimSuffix(cfg.BaseURL, "/"),
	}, nil
}

func (l *LocalStorage) Upload(_ context.Context, key string, reader io.Reader, _ int64, contentType string) (*ports.FileInfo, error) {
	key = strings.ReplaceAll(key, "\\", "/")
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))

	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, reader)
	if err != nil {
		os.Remove(fullPath)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	return &ports.FileInfo{
		Key:         key,
		URL:         l.URL(key),
		Size:        written,
		ContentType: contentType,
	}, nil
}

func (l *LocalStorage) Delete(_ context.Context, key string) error {
	fullPath := filepath.Join(l.basePath, filepath.FromSlash(key))
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func (l *LocalStorage) URL(key string) string {
	return l.baseURL + "/" + strings.TrimPrefix(key, "/")
}
