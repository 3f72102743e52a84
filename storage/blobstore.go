package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// ThumbnailDirName is the per-user subtree holding generated previews.
	ThumbnailDirName = "thumbnails"
	// OrganizedDirName is the per-user subtree holding the date-partitioned copies.
	OrganizedDirName = "organized_photos"
)

// ErrNotFound is returned by Size for paths with no backing file.
var ErrNotFound = errors.New("blob not found")

// BlobStore owns the on-disk bytes under a single root directory, keyed by
// user. All paths it hands out are slash-separated and relative to the root;
// the File record stores them verbatim.
type BlobStore struct {
	root string
}

func NewBlobStore(root string) (*BlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create storage root: %w", err)
	}
	return &BlobStore{root: root}, nil
}

func (s *BlobStore) Root() string {
	return s.root
}

// Abs resolves a store-relative path to an absolute filesystem path.
func (s *BlobStore) Abs(rel string) string {
	return filepath.Join(s.root, filepath.FromSlash(rel))
}

// UserDir returns the store-relative directory for a user's originals.
func (s *BlobStore) UserDir(userID uuid.UUID) string {
	return userID.String()
}

func (s *BlobStore) ThumbnailDir(userID uuid.UUID) string {
	return userID.String() + "/" + ThumbnailDirName
}

func (s *BlobStore) OrganizedDir(userID uuid.UUID) string {
	return userID.String() + "/" + OrganizedDirName
}

// StoredName allocates a collision-resistant filename: millisecond timestamp
// plus a random token plus the sanitized original name. Uniqueness comes from
// the token, not from coordination, so concurrent uploads with the same
// desired name cannot collide.
func StoredName(desiredName string) string {
	return fmt.Sprintf("%d_%s_%s", time.Now().UnixMilli(), uuid.New().String(), SanitizeName(desiredName))
}

// SanitizeName strips any directory components and path separators from a
// client-supplied filename.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = filepath.Base(filepath.FromSlash(name))
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "file"
	}
	return name
}

// Store writes src into the user's directory under a freshly allocated stored
// name, creating the directory on demand. It returns the store-relative path
// and the number of bytes written. On write failure the partial file is
// removed before returning.
func (s *BlobStore) Store(userID uuid.UUID, src io.Reader, desiredName string) (string, int64, error) {
	userDir := s.Abs(s.UserDir(userID))
	if err := os.MkdirAll(userDir, 0o755); err != nil {
		return "", 0, fmt.Errorf("create user dir: %w", err)
	}

	rel := s.UserDir(userID) + "/" + StoredName(desiredName)
	abs := s.Abs(rel)

	dst, err := os.Create(abs)
	if err != nil {
		return "", 0, fmt.Errorf("create blob: %w", err)
	}

	written, err := io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(abs)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}

	return rel, written, nil
}

func (s *BlobStore) Exists(rel string) bool {
	_, err := os.Stat(s.Abs(rel))
	return err == nil
}

func (s *BlobStore) Size(rel string) (int64, error) {
	info, err := os.Stat(s.Abs(rel))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return info.Size(), nil
}

// Delete removes a blob. Idempotent: deleting an absent path reports false
// rather than an error.
func (s *BlobStore) Delete(rel string) bool {
	err := os.Remove(s.Abs(rel))
	return err == nil
}

// SubtreeSize sums the sizes of all regular files under rel. Unreadable
// entries count as zero; used for diagnostics only.
func (s *BlobStore) SubtreeSize(rel string) int64 {
	var total int64
	_ = filepath.WalkDir(s.Abs(rel), func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.Type().IsRegular() {
			if info, ierr := d.Info(); ierr == nil {
				total += info.Size()
			}
		}
		return nil
	})
	return total
}
