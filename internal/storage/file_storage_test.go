package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) (*LocalFileStorage, string) {
	t.Helper()
	dir := t.TempDir()
	s, err := NewLocalFileStorage(dir, zap.NewNop())
	require.NoError(t, err)
	return s, dir
}

func TestLocalFileStorage_SaveAndExists(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "invoice-1001.pdf", []byte("%PDF-1.4")))

	assert.True(t, s.Exists(ctx, "invoice-1001.pdf"))
	assert.False(t, s.Exists(ctx, "invoice-9999.pdf"))

	content, err := os.ReadFile(filepath.Join(dir, "invoice-1001.pdf"))
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-1.4"), content)
}

func TestLocalFileStorage_SaveCreatesSubdirectories(t *testing.T) {
	s, dir := newTestStorage(t)

	require.NoError(t, s.Save(context.Background(), filepath.Join("2026", "invoice-1001.pdf"), []byte("x")))
	_, err := os.Stat(filepath.Join(dir, "2026", "invoice-1001.pdf"))
	assert.NoError(t, err)
}

func TestLocalFileStorage_RejectsPathEscape(t *testing.T) {
	s, dir := newTestStorage(t)
	ctx := context.Background()

	err := s.Save(ctx, filepath.Join("..", "escape.pdf"), []byte("x"))
	assert.Error(t, err)
	_, statErr := os.Stat(filepath.Join(filepath.Dir(dir), "escape.pdf"))
	assert.True(t, os.IsNotExist(statErr))

	assert.False(t, s.Exists(ctx, filepath.Join("..", "anything")))
}

func TestLocalFileStorage_GetFullPath(t *testing.T) {
	s, dir := newTestStorage(t)
	assert.Equal(t, filepath.Join(dir, "a.pdf"), s.GetFullPath("a.pdf"))
}

func TestNewLocalFileStorage_CreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "out")
	_, err := NewLocalFileStorage(dir, zap.NewNop())
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}
