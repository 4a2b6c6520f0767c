package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

func TestCreateDirectoryOnce(t *testing.T) {
	dir := t.TempDir()
	fsys := NewFilesystem(dir)
	ctx := context.Background()

	out, err := fsys.CreateDirectory(ctx, map[string]any{"directory_name": "reports"})
	require.NoError(t, err)
	assert.Contains(t, out, "reports")

	info, err := os.Stat(filepath.Join(dir, "reports"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// Drop a marker so a second call that mutated anything would be visible.
	marker := filepath.Join(dir, "reports", "keep")
	require.NoError(t, os.WriteFile(marker, []byte("x"), 0o644))

	_, err = fsys.CreateDirectory(ctx, map[string]any{"directory_name": "reports"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
	_, err = os.Stat(marker)
	assert.NoError(t, err)
}

func TestCreateDirectoryExistingFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "taken"), nil, 0o644))

	_, err := NewFilesystem(dir).CreateDirectory(context.Background(), map[string]any{"directory_name": "taken"})
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestCreateDirectoryInvalidName(t *testing.T) {
	fsys := NewFilesystem(t.TempDir())
	for _, args := range []map[string]any{
		{},
		{"directory_name": ""},
		{"directory_name": "   "},
		{"directory_name": 42.0},
	} {
		_, err := fsys.CreateDirectory(context.Background(), args)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument, "args=%v", args)
	}
}

func TestCreateFileTruncates(t *testing.T) {
	dir := t.TempDir()
	fsys := NewFilesystem(dir)
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("old contents"), 0o644))

	out, err := fsys.CreateFile(context.Background(), map[string]any{"filename": "notes.txt"})
	require.NoError(t, err)
	assert.Equal(t, "File 'notes.txt' was created successfully.", out)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestCreateFileNew(t *testing.T) {
	dir := t.TempDir()
	_, err := NewFilesystem(dir).CreateFile(context.Background(), map[string]any{"filename": "empty.md"})
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "empty.md"))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestCreateFileInvalidName(t *testing.T) {
	_, err := NewFilesystem(t.TempDir()).CreateFile(context.Background(), map[string]any{"filename": ""})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestCreateFileMissingParent(t *testing.T) {
	_, err := NewFilesystem(t.TempDir()).CreateFile(context.Background(), map[string]any{"filename": "no/such/dir/f.txt"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInvalidArgument)
}
