package tools

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// Filesystem creates directories and files under a base directory.
type Filesystem struct {
	baseDir string
}

// NewFilesystem creates a Filesystem rooted at baseDir. Absolute names are used as given.
func NewFilesystem(baseDir string) *Filesystem {
	return &Filesystem{baseDir: baseDir}
}

func (f *Filesystem) resolve(name string) string {
	if filepath.IsAbs(name) || f.baseDir == "" {
		return name
	}
	return filepath.Join(f.baseDir, name)
}

// CreateDirectory creates one empty directory. It never touches an existing path.
func (f *Filesystem) CreateDirectory(_ context.Context, args map[string]any) (string, error) {
	name, err := stringArg(args, "directory_name")
	if err != nil {
		return "", err
	}
	path := f.resolve(name)
	if _, err := os.Lstat(path); err == nil {
		return "", fmt.Errorf("directory '%s': %w", name, domain.ErrAlreadyExists)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("failed to stat '%s': %w", name, err)
	}
	if err := os.Mkdir(path, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", fmt.Errorf("directory '%s': %w", name, domain.ErrAlreadyExists)
		}
		return "", fmt.Errorf("failed to create directory '%s': %w", name, err)
	}
	return fmt.Sprintf("Directory '%s' was created successfully.", name), nil
}

// CreateFile creates an empty file, truncating an existing one.
func (f *Filesystem) CreateFile(_ context.Context, args map[string]any) (string, error) {
	name, err := stringArg(args, "filename")
	if err != nil {
		return "", err
	}
	file, err := os.OpenFile(f.resolve(name), os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file '%s': %w", name, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("failed to close file '%s': %w", name, err)
	}
	return fmt.Sprintf("File '%s' was created successfully.", name), nil
}
