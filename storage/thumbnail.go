package storage

import (
	"fmt"
	"io"
	"os"
	"path"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// Thumbnailer derives a preview artifact from a stored original. Returning an
// error means even the fallback failed; callers must treat that as "no
// thumbnail", never as an upload failure.
type Thumbnailer interface {
	Generate(userID uuid.UUID, originalRel string) (string, error)
}

// NewThumbnailer selects an implementation at startup. "copy" forces the
// plain-copy fallback; anything else gets the imaging-backed resizer.
func NewThumbnailer(store *BlobStore, kind string, size int) Thumbnailer {
	if kind == "copy" {
		return &CopyThumbnailer{store: store}
	}
	if size <= 0 {
		size = 300
	}
	return &ImagingThumbnailer{store: store, size: size}
}

// ImagingThumbnailer produces a fixed square crop-and-resize preview for
// raster images. Non-raster inputs and any decode/encode failure degrade to a
// byte-for-byte copy, preserving the contract that every file asked about
// gets some preview artifact.
type ImagingThumbnailer struct {
	store *BlobStore
	size  int
}

func (t *ImagingThumbnailer) Generate(userID uuid.UUID, originalRel string) (string, error) {
	if !IsRasterImage(originalRel) {
		return copyThumbnail(t.store, userID, originalRel)
	}

	img, err := imaging.Open(t.store.Abs(originalRel))
	if err != nil {
		return copyThumbnail(t.store, userID, originalRel)
	}

	rel, abs, err := allocThumbnailPath(t.store, userID, originalRel)
	if err != nil {
		return "", err
	}

	thumb := imaging.Fill(img, t.size, t.size, imaging.Center, imaging.Lanczos)
	if err := imaging.Save(thumb, abs); err != nil {
		_ = os.Remove(abs)
		return copyThumbnail(t.store, userID, originalRel)
	}
	return rel, nil
}

// CopyThumbnailer is the null implementation: the "thumbnail" is a copy of
// the original.
type CopyThumbnailer struct {
	store *BlobStore
}

func (t *CopyThumbnailer) Generate(userID uuid.UUID, originalRel string) (string, error) {
	return copyThumbnail(t.store, userID, originalRel)
}

func allocThumbnailPath(store *BlobStore, userID uuid.UUID, originalRel string) (string, string, error) {
	dir := store.ThumbnailDir(userID)
	if err := os.MkdirAll(store.Abs(dir), 0o755); err != nil {
		return "", "", fmt.Errorf("create thumbnail dir: %w", err)
	}
	name := fmt.Sprintf("thumb_%s_%s", uuid.New().String(), path.Base(originalRel))
	rel := dir + "/" + name
	return rel, store.Abs(rel), nil
}

func copyThumbnail(store *BlobStore, userID uuid.UUID, originalRel string) (string, error) {
	rel, abs, err := allocThumbnailPath(store, userID, originalRel)
	if err != nil {
		return "", err
	}

	src, err := os.Open(store.Abs(originalRel))
	if err != nil {
		return "", fmt.Errorf("open original: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(abs)
	if err != nil {
		return "", fmt.Errorf("create thumbnail: %w", err)
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(abs)
		return "", fmt.Errorf("copy thumbnail: %w", err)
	}
	return rel, nil
}
