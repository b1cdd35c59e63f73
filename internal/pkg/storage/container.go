package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ContainerStorage keeps objects in a flat named container on disk and
// serves them through a public base URL. Object names are flat, no
// directory structure inside the container.
type ContainerStorage struct {
	basePath  string
	baseURL   string // e.g., "http://localhost:3000/files"
	container string
}

func NewContainerStorage(basePath, baseURL, container string) (*ContainerStorage, error) {
	root := filepath.Join(basePath, container)
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage container: %w", err)
	}

	return &ContainerStorage{
		basePath:  basePath,
		baseURL:   strings.TrimRight(baseURL, "/"),
		container: container,
	}, nil
}

func (s *ContainerStorage) objectPath(name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	if clean == "." || clean == ".." || clean == "/" {
		return "", fmt.Errorf("invalid object name: %s", name)
	}
	return filepath.Join(s.basePath, s.container, clean), nil
}

// Upload implements FileStorage.
func (s *ContainerStorage) Upload(ctx context.Context, file io.Reader, name string, contentType string) (string, error) {
	fullPath, err := s.objectPath(name)
	if err != nil {
		return "", err
	}

	dst, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create object: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(fullPath)
		return "", fmt.Errorf("failed to write object: %w", err)
	}

	return filepath.Base(fullPath), nil
}

// Download implements FileStorage.
func (s *ContainerStorage) Download(ctx context.Context, name string) (io.ReadCloser, error) {
	fullPath, err := s.objectPath(name)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("object not found: %s", name)
		}
		return nil, fmt.Errorf("failed to open object: %w", err)
	}

	return file, nil
}

// Delete implements FileStorage.
func (s *ContainerStorage) Delete(ctx context.Context, name string) error {
	fullPath, err := s.objectPath(name)
	if err != nil {
		return err
	}

	if err := os.Remove(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil // Already deleted
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}

	return nil
}

// GetURL implements FileStorage.
func (s *ContainerStorage) GetURL(ctx context.Context, name string) (string, error) {
	clean := filepath.Base(filepath.Clean(name))
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.container, clean), nil
}

// Exists implements FileStorage.
func (s *ContainerStorage) Exists(ctx context.Context, name string) (bool, error) {
	fullPath, err := s.objectPath(name)
	if err != nil {
		return false, err
	}

	_, err = os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}
