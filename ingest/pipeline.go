package ingest

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/cloudstore-app/cloudstore-service/storage"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Upload is one incoming file. Size is the client-declared length used for
// admission; the pipeline re-checks against the bytes actually written.
type Upload struct {
	OriginalName string
	DeclaredType entity.FileType
	Body         io.Reader
	Size         int64
}

// Result is the outcome of a successful ingestion.
type Result struct {
	Record      *entity.File
	Metadata    *entity.PhotoMetadata
	BytesStored int64
}

// Pipeline runs a single upload through classify, admission, store,
// enrichment, record and quota commit. Every terminal failure path deletes
// whatever blob it already wrote; enrichment failures never fail the run.
type Pipeline struct {
	blobs     *storage.BlobStore
	thumbs    storage.Thumbnailer
	extractor *storage.MetadataExtractor
	users     UserStore
	files     FileStore
	meta      MetadataStore
	ledger    *QuotaLedger
	logger    Logger
}

func NewPipeline(
	blobs *storage.BlobStore,
	thumbs storage.Thumbnailer,
	extractor *storage.MetadataExtractor,
	users UserStore,
	files FileStore,
	meta MetadataStore,
	logger Logger,
) *Pipeline {
	return &Pipeline{
		blobs:     blobs,
		thumbs:    thumbs,
		extractor: extractor,
		users:     users,
		files:     files,
		meta:      meta,
		ledger:    NewQuotaLedger(users),
		logger:    logger,
	}
}

// Ledger exposes the quota ledger built over the same user store.
func (p *Pipeline) Ledger() *QuotaLedger {
	return p.ledger
}

// Ingest handles the single-file path: admission against a fresh user
// snapshot and an immediate quota commit on success.
func (p *Pipeline) Ingest(ctx context.Context, userID uuid.UUID, up Upload) (*Result, error) {
	user, err := p.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, newError(KindUserNotFound, err)
		}
		return nil, newError(KindStoreFailed, err)
	}
	return p.run(ctx, user, up, true)
}

// IngestForBatch runs one file against a user snapshot the coordinator
// already admitted; the quota commit is deferred to the coordinator so it can
// commit only the bytes of files that actually succeeded.
func (p *Pipeline) IngestForBatch(ctx context.Context, user *entity.User, up Upload) (*Result, error) {
	return p.run(ctx, user, up, false)
}

func (p *Pipeline) run(ctx context.Context, user *entity.User, up Upload, commitQuota bool) (*Result, error) {
	fileType := p.classify(up)

	if err := p.ledger.CheckAdmission(user, up.Size); err != nil {
		return nil, err
	}

	storedRel, written, err := p.blobs.Store(user.ID, up.Body, up.OriginalName)
	if err != nil {
		return nil, newError(KindStoreFailed, err)
	}

	// The declared size can undershoot (or be absent); once the true size is
	// known, a blob that would overshoot the limit is rolled back.
	if written > up.Size {
		if err := p.ledger.CheckAdmission(user, written); err != nil {
			p.blobs.Delete(storedRel)
			return nil, err
		}
	}

	var thumbnailRel *string
	var extracted *storage.Metadata
	if fileType == entity.FileTypeImage {
		thumbnailRel, extracted = p.enrich(ctx, user.ID, storedRel)
	}

	record := &entity.File{
		ID:            uuid.New(),
		UserID:        user.ID,
		OriginalName:  up.OriginalName,
		FileName:      lastSegment(storedRel),
		FilePath:      storedRel,
		ThumbnailPath: thumbnailRel,
		FileType:      fileType,
		FileSize:      written,
		IsPublic:      false,
	}

	if err := p.files.Create(ctx, record); err != nil {
		p.cleanupBlobs(storedRel, thumbnailRel)
		return nil, newError(KindStoreFailed, fmt.Errorf("create file record: %w", err))
	}

	var metaRecord *entity.PhotoMetadata
	if fileType == entity.FileTypeImage {
		metaRecord = p.recordMetadata(ctx, record, extracted)
	}

	if commitQuota {
		if err := p.ledger.Commit(ctx, user.ID, written); err != nil {
			p.logger.ErrorWithContextf(ctx, err, "[Ingest] Quota commit failed for user %s, rolling back file %s", user.ID, record.ID)
			if derr := p.files.Delete(ctx, record.ID, user.ID); derr != nil {
				p.logger.ErrorWithContextf(ctx, derr, "[Ingest] Rollback delete failed for file %s", record.ID)
			}
			p.cleanupBlobs(storedRel, thumbnailRel)
			return nil, newError(KindStoreFailed, fmt.Errorf("commit quota: %w", err))
		}
	}

	return &Result{Record: record, Metadata: metaRecord, BytesStored: written}, nil
}

// classify trusts the extension tables; the client-declared type is only a
// hint for extensionless uploads.
func (p *Pipeline) classify(up Upload) entity.FileType {
	fileType := storage.Classify(up.OriginalName)
	if fileType == entity.FileTypeOther && up.DeclaredType != "" && entity.ValidFileType(up.DeclaredType) {
		fileType = up.DeclaredType
	}
	return fileType
}

// enrich is strictly best-effort: a nil thumbnail and stat-only metadata are
// valid outcomes, never errors.
func (p *Pipeline) enrich(ctx context.Context, userID uuid.UUID, storedRel string) (*string, *storage.Metadata) {
	var thumbnailRel *string
	if rel, err := p.thumbs.Generate(userID, storedRel); err != nil {
		p.logger.WarningWithContextf(ctx, "[Ingest] Thumbnail generation failed for %s: %v", storedRel, err)
	} else {
		thumbnailRel = &rel
	}

	meta := p.extractor.Extract(ctx, p.blobs.Abs(storedRel))
	return thumbnailRel, &meta
}

func (p *Pipeline) recordMetadata(ctx context.Context, record *entity.File, extracted *storage.Metadata) *entity.PhotoMetadata {
	if extracted == nil {
		return nil
	}

	dateTaken := extracted.DateTaken
	if dateTaken == nil {
		// Fall back to the record's own creation time.
		created := record.CreatedAt
		dateTaken = &created
	}

	metaRecord := &entity.PhotoMetadata{
		ID:          uuid.New(),
		FileID:      record.ID,
		DateTaken:   dateTaken,
		Latitude:    extracted.Latitude,
		Longitude:   extracted.Longitude,
		CameraModel: extracted.CameraModel,
		Resolution:  extracted.Resolution,
		Raw:         datatypes.JSON(extracted.Raw),
	}

	if err := p.meta.Create(ctx, metaRecord); err != nil {
		p.logger.WarningWithContextf(ctx, "[Ingest] Metadata record creation failed for file %s: %v", record.ID, err)
		return nil
	}
	return metaRecord
}

func (p *Pipeline) cleanupBlobs(storedRel string, thumbnailRel *string) {
	p.blobs.Delete(storedRel)
	if thumbnailRel != nil {
		p.blobs.Delete(*thumbnailRel)
	}
}

func lastSegment(rel string) string {
	for i := len(rel) - 1; i >= 0; i-- {
		if rel[i] == '/' {
			return rel[i+1:]
		}
	}
	return rel
}
