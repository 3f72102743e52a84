package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storeTestPNG(t *testing.T, store *BlobStore, userID uuid.UUID, width, height int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	rel, _, err := store.Store(userID, &buf, "test.png")
	require.NoError(t, err)
	return rel
}

func TestImagingThumbnailerResizes(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()
	rel := storeTestPNG(t, store, userID, 800, 600)

	thumbnailer := NewThumbnailer(store, "imaging", 300)
	thumbRel, err := thumbnailer.Generate(userID, rel)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(thumbRel, store.ThumbnailDir(userID)+"/thumb_"))
	assert.True(t, store.Exists(thumbRel))

	thumb, err := imaging.Open(store.Abs(thumbRel))
	require.NoError(t, err)
	bounds := thumb.Bounds()
	assert.Equal(t, 300, bounds.Dx())
	assert.Equal(t, 300, bounds.Dy())
}

func TestImagingThumbnailerCorruptFileFallsBackToCopy(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	rel, _, err := store.Store(userID, strings.NewReader("not actually a png"), "broken.png")
	require.NoError(t, err)

	thumbnailer := NewThumbnailer(store, "imaging", 300)
	thumbRel, err := thumbnailer.Generate(userID, rel)
	require.NoError(t, err)

	// Undecodable input degrades to a byte-for-byte copy.
	size, err := store.Size(thumbRel)
	require.NoError(t, err)
	assert.Equal(t, int64(len("not actually a png")), size)
}

func TestImagingThumbnailerNonRasterCopies(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	svg := `<svg xmlns="http://www.w3.org/2000/svg"/>`
	rel, _, err := store.Store(userID, strings.NewReader(svg), "icon.svg")
	require.NoError(t, err)

	thumbnailer := NewThumbnailer(store, "imaging", 300)
	thumbRel, err := thumbnailer.Generate(userID, rel)
	require.NoError(t, err)

	size, err := store.Size(thumbRel)
	require.NoError(t, err)
	assert.Equal(t, int64(len(svg)), size)
}

func TestCopyThumbnailer(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()
	rel := storeTestPNG(t, store, userID, 64, 64)

	thumbnailer := NewThumbnailer(store, "copy", 300)
	thumbRel, err := thumbnailer.Generate(userID, rel)
	require.NoError(t, err)

	origSize, err := store.Size(rel)
	require.NoError(t, err)
	copySize, err := store.Size(thumbRel)
	require.NoError(t, err)
	assert.Equal(t, origSize, copySize)
}

func TestThumbnailerMissingOriginal(t *testing.T) {
	store := newTestStore(t)
	userID := uuid.New()

	thumbnailer := NewThumbnailer(store, "copy", 300)
	_, err := thumbnailer.Generate(userID, userID.String()+"/nope.jpg")
	assert.Error(t, err)
}
