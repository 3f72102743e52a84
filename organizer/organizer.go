package organizer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/cloudstore-app/cloudstore-service/storage"
	"github.com/google/uuid"
)

// FileStore resolves a blob path back to its owning record so already
// organized photos can be skipped.
type FileStore interface {
	FindByPath(ctx context.Context, userID uuid.UUID, filePath string) (*entity.File, error)
}

type MetadataStore interface {
	FindByFileID(ctx context.Context, fileID uuid.UUID) (*entity.PhotoMetadata, error)
	MarkOrganized(ctx context.Context, fileID uuid.UUID, organizedPath string) error
}

type Logger interface {
	InfoWithContextf(ctx context.Context, format string, args ...interface{})
	WarningWithContextf(ctx context.Context, format string, args ...interface{})
	ErrorWithContextf(ctx context.Context, err error, format string, args ...interface{})
}

// Report is the outcome of one organize run. Skipped counts photos whose
// record says they were already organized.
type Report struct {
	Organized int `json:"organizedCount"`
	Failed    int `json:"failedCount"`
	Skipped   int `json:"skippedCount"`
	Total     int `json:"totalCount"`
}

// Organizer copies every recognized image under a user's blob tree into the
// canonical organized_photos/YYYY/MM/DD layout. Originals are never moved or
// deleted; per-file failures never abort the walk.
type Organizer struct {
	blobs     *storage.BlobStore
	extractor *storage.MetadataExtractor
	files     FileStore
	meta      MetadataStore
	logger    Logger
}

func New(blobs *storage.BlobStore, extractor *storage.MetadataExtractor, files FileStore, meta MetadataStore, logger Logger) *Organizer {
	return &Organizer{
		blobs:     blobs,
		extractor: extractor,
		files:     files,
		meta:      meta,
		logger:    logger,
	}
}

func (o *Organizer) Organize(ctx context.Context, userID uuid.UUID) Report {
	var report Report

	userDir := o.blobs.UserDir(userID)
	root := o.blobs.Abs(userDir)

	err := filepath.WalkDir(root, func(absPath string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable entry; keep walking.
			return nil
		}
		if d.IsDir() {
			// The organized and thumbnail subtrees would make the walk feed
			// on its own output.
			if d.Name() == storage.OrganizedDirName || d.Name() == storage.ThumbnailDirName {
				return fs.SkipDir
			}
			return nil
		}
		if storage.Classify(d.Name()) != entity.FileTypeImage {
			return nil
		}

		report.Total++

		relInUser, rerr := filepath.Rel(root, absPath)
		if rerr != nil {
			report.Failed++
			return nil
		}
		storeRel := userDir + "/" + filepath.ToSlash(relInUser)

		switch skipped, err := o.organizeOne(ctx, userID, storeRel, absPath); {
		case err != nil:
			o.logger.WarningWithContextf(ctx, "[Organizer] Failed to organize %s: %v", storeRel, err)
			report.Failed++
		case skipped:
			report.Skipped++
		default:
			report.Organized++
		}
		return nil
	})
	if err != nil {
		o.logger.ErrorWithContextf(ctx, err, "[Organizer] Walk failed for user %s", userID)
	}

	return report
}

// organizeOne copies a single photo into its date directory. The bool result
// reports an already-organized skip.
func (o *Organizer) organizeOne(ctx context.Context, userID uuid.UUID, storeRel, absPath string) (bool, error) {
	var record *entity.File
	var meta *entity.PhotoMetadata

	if rec, err := o.files.FindByPath(ctx, userID, storeRel); err == nil {
		record = rec
		if m, merr := o.meta.FindByFileID(ctx, rec.ID); merr == nil {
			meta = m
		}
	} else if !errors.Is(err, entity.ErrNotFound) {
		return false, err
	}

	if meta != nil && meta.Organized {
		return true, nil
	}

	photoDate := o.extractor.Extract(ctx, absPath).FileCreated
	if meta != nil && meta.DateTaken != nil {
		photoDate = *meta.DateTaken
	}

	destDir := fmt.Sprintf("%s/%04d/%02d/%02d",
		o.blobs.OrganizedDir(userID), photoDate.Year(), int(photoDate.Month()), photoDate.Day())
	if err := os.MkdirAll(o.blobs.Abs(destDir), 0o755); err != nil {
		return false, fmt.Errorf("create organized dir: %w", err)
	}

	destRel := destDir + "/" + path.Base(storeRel)
	if o.blobs.Exists(destRel) {
		destRel = destDir + "/" + disambiguate(path.Base(storeRel))
	}

	if err := copyFile(absPath, o.blobs.Abs(destRel)); err != nil {
		return false, err
	}

	if record != nil {
		if err := o.meta.MarkOrganized(ctx, record.ID, destRel); err != nil {
			// Best-effort flag; the copy itself succeeded.
			o.logger.WarningWithContextf(ctx, "[Organizer] Could not mark file %s organized: %v", record.ID, err)
		}
	}
	return false, nil
}

// disambiguate inserts an 8-character random token before the extension so a
// name collision never overwrites an existing organized photo.
func disambiguate(name string) string {
	token := strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
	ext := path.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return stem + "_" + token + ext
}

func copyFile(srcAbs, dstAbs string) error {
	src, err := os.Open(srcAbs)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(dstAbs)
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	_, err = io.Copy(dst, src)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(dstAbs)
		return fmt.Errorf("copy: %w", err)
	}
	return nil
}
