package storage

import (
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *BlobStore {
	t.Helper()
	store, err := NewBlobStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestStoreAllocatesUniqueNames(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	relA, sizeA, err := store.Store(userID, strings.NewReader("first"), "photo.jpg")
	require.NoError(t, err)
	relB, sizeB, err := store.Store(userID, strings.NewReader("second"), "photo.jpg")
	require.NoError(t, err)

	// Same desired name, distinct stored paths, both readable.
	assert.NotEqual(t, relA, relB)
	assert.Equal(t, int64(5), sizeA)
	assert.Equal(t, int64(6), sizeB)
	assert.True(t, store.Exists(relA))
	assert.True(t, store.Exists(relB))

	dataA, err := os.ReadFile(store.Abs(relA))
	require.NoError(t, err)
	assert.Equal(t, "first", string(dataA))
}

func TestStorePathsAreUserScoped(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	rel, _, err := store.Store(userID, strings.NewReader("data"), "a.txt")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(rel, userID.String()+"/"))
	assert.True(t, strings.HasSuffix(rel, "_a.txt"))
}

func TestSanitizeName(t *testing.T) {
	assert.Equal(t, "evil.txt", SanitizeName("../../evil.txt"))
	assert.Equal(t, "evil.txt", SanitizeName(`..\..\evil.txt`))
	assert.Equal(t, "a.txt", SanitizeName("/abs/path/a.txt"))
	assert.Equal(t, "file", SanitizeName(""))
	assert.Equal(t, "file", SanitizeName(".."))
	assert.Equal(t, "plain.jpg", SanitizeName("plain.jpg"))
}

func TestSizeAndDelete(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	rel, _, err := store.Store(userID, strings.NewReader("12345678"), "b.bin")
	require.NoError(t, err)

	size, err := store.Size(rel)
	require.NoError(t, err)
	assert.Equal(t, int64(8), size)

	assert.True(t, store.Delete(rel))
	assert.False(t, store.Exists(rel))

	// Idempotent: second delete just reports false.
	assert.False(t, store.Delete(rel))

	_, err = store.Size(rel)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestSubtreeSize(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	_, _, err := store.Store(userID, strings.NewReader("aaaa"), "one.txt")
	require.NoError(t, err)
	_, _, err = store.Store(userID, strings.NewReader("bbbbbb"), "two.txt")
	require.NoError(t, err)

	assert.Equal(t, int64(10), store.SubtreeSize(store.UserDir(userID)))
	assert.Equal(t, int64(0), store.SubtreeSize(store.UserDir(uuid.New())))
}

func TestDirLayout(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	assert.Equal(t, userID.String(), store.UserDir(userID))
	assert.Equal(t, userID.String()+"/thumbnails", store.ThumbnailDir(userID))
	assert.Equal(t, userID.String()+"/organized_photos", store.OrganizedDir(userID))
}
