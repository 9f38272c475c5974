package storage

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"telemed-platform/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(config.StorageConfig{
		Dir:       t.TempDir(),
		PublicURL: "http://localhost:8080/",
	})
	require.NoError(t, err)
	return store
}

func TestUploadAndDelete(t *testing.T) {
	store := newTestStore(t)

	url, size, err := store.Upload("attachments", "report.pdf", strings.NewReader("content"), false)
	require.NoError(t, err)
	assert.Equal(t, int64(7), size)
	assert.Equal(t, "http://localhost:8080/files/attachments/report.pdf", url)

	require.NoError(t, store.Delete("attachments", "report.pdf"))
	assert.ErrorIs(t, store.Delete("attachments", "report.pdf"), ErrObjectNotFound)
}

func TestUploadRejectsExistingWithoutOverwrite(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Upload("avatars", "user.png", strings.NewReader("first"), false)
	require.NoError(t, err)

	_, _, err = store.Upload("avatars", "user.png", strings.NewReader("second"), false)
	assert.ErrorIs(t, err, ErrObjectExists)
}

func TestUploadOverwriteReplacesContent(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Upload("avatars", "user.png", strings.NewReader("first"), true)
	require.NoError(t, err)

	_, size, err := store.Upload("avatars", "user.png", strings.NewReader("replaced"), true)
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)

	data, err := os.ReadFile(filepath.Join(store.baseDir, "avatars", "user.png"))
	require.NoError(t, err)
	assert.Equal(t, "replaced", string(data))
}

func TestUploadNestedObjectName(t *testing.T) {
	store := newTestStore(t)

	recordScoped := "3f6e/report.pdf"
	url, _, err := store.Upload("attachments", recordScoped, strings.NewReader("x"), false)
	require.NoError(t, err)
	assert.Contains(t, url, "/files/attachments/3f6e/report.pdf")
}

func TestObjectPathRejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Upload("attachments", "../../etc/passwd", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, _, err = store.Upload("..", "passwd", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, ErrInvalidName)

	_, _, err = store.Upload("", "name", strings.NewReader("x"), false)
	assert.ErrorIs(t, err, ErrInvalidName)
}
