package controller

import (
	"errors"
	"time"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/cloudstore-app/cloudstore-service/http/controller/dto"
	"github.com/cloudstore-app/cloudstore-service/infra"
	"github.com/cloudstore-app/cloudstore-service/ingest"
	"github.com/cloudstore-app/cloudstore-service/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadFile ingests a single multipart file through the pipeline.
func (ctrl *Controller) UploadFile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		utils.JSON400(c, "No file uploaded")
		return
	}

	if fileHeader.Size > ctrl.Config.EnvConfig.Storage.MaxUploadSize {
		utils.JSON413(c, "File exceeds maximum upload size")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to open multipart file %q", fileHeader.Filename)
		utils.JSON500(c, "Failed to read uploaded file")
		return
	}
	defer src.Close()

	result, err := ctrl.Pipeline.Ingest(ctx, userID, ingest.Upload{
		OriginalName: fileHeader.Filename,
		DeclaredType: entity.FileType(c.PostForm("type")),
		Body:         src,
		Size:         fileHeader.Size,
	})
	if err != nil {
		ctrl.respondIngestError(c, err)
		return
	}

	ctrl.invalidatePhotoCaches(c, userID, nil)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[File] Uploaded %q (%d bytes) for user %s", fileHeader.Filename, result.BytesStored, userID)
	utils.JSON201(c, dto.NewFileView(result.Record))
}

// ListFiles returns every file descriptor for the authenticated user.
func (ctrl *Controller) ListFiles(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	files, err := ctrl.Repository.FileRepo.FindByUser(ctx, userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to list files for user %s", userID)
		utils.JSON500(c, "Failed to retrieve files")
		return
	}

	utils.JSON200(c, dto.NewFileViews(files))
}

func (ctrl *Controller) GetFile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid file id")
		return
	}

	file, err := ctrl.Repository.FileRepo.FindByID(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			utils.JSON404(c, "File not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to fetch file %s", fileID)
		utils.JSON500(c, "Failed to retrieve file")
		return
	}

	utils.JSON200(c, dto.NewFileView(file))
}

// DownloadFile streams the original with an attachment disposition.
func (ctrl *Controller) DownloadFile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid file id")
		return
	}

	file, err := ctrl.Repository.FileRepo.FindByID(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			utils.JSON404(c, "File not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to fetch file %s", fileID)
		utils.JSON500(c, "Failed to retrieve file")
		return
	}

	if !ctrl.Infra.Blob.Exists(file.FilePath) {
		// Record exists but the blob is gone; surface as missing rather than
		// streaming an empty body.
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Blob missing for record %s at %s", file.ID, file.FilePath)
		utils.JSON404(c, "File not found on server")
		return
	}

	c.FileAttachment(ctrl.Infra.Blob.Abs(file.FilePath), file.OriginalName)
}

// DeleteFile removes the record (metadata cascades), the blob, the thumbnail,
// and releases the quota.
func (ctrl *Controller) DeleteFile(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	fileID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.JSON400(c, "Invalid file id")
		return
	}

	file, err := ctrl.Repository.FileRepo.FindByID(ctx, fileID, userID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			utils.JSON404(c, "File not found")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to fetch file %s", fileID)
		utils.JSON500(c, "Failed to retrieve file")
		return
	}

	if err := ctrl.Repository.FileRepo.Delete(ctx, fileID, userID); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to delete record %s", fileID)
		utils.JSON500(c, "Failed to delete file")
		return
	}

	ctrl.Infra.Blob.Delete(file.FilePath)
	if file.ThumbnailPath != nil {
		ctrl.Infra.Blob.Delete(*file.ThumbnailPath)
	}

	if err := ctrl.Pipeline.Ledger().Release(ctx, userID, file.FileSize); err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to release %d bytes for user %s", file.FileSize, userID)
	}

	ctrl.invalidatePhotoCaches(c, userID, &fileID)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[File] Deleted file %s (%d bytes) for user %s", fileID, file.FileSize, userID)
	utils.JSON200(c, gin.H{"message": "File deleted successfully"})
}

// GetFileTypeSummary returns per-category count and total size.
func (ctrl *Controller) GetFileTypeSummary(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	summary, err := ctrl.Repository.FileRepo.SummaryByType(ctx, userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to summarize files for user %s", userID)
		utils.JSON500(c, "Failed to retrieve file summary")
		return
	}

	utils.JSON200(c, summary)
}

// GetSyncStatus reports what the mobile client still has to back up.
func (ctrl *Controller) GetSyncStatus(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	var since time.Time
	var sincePtr *time.Time
	if raw := c.Query("since"); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			utils.JSON400(c, "Invalid since timestamp, expected RFC3339")
			return
		}
		since = parsed
		sincePtr = &parsed
	}

	files, err := ctrl.Repository.FileRepo.FindByUserSince(ctx, userID, since)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Failed to compute sync status for user %s", userID)
		utils.JSON500(c, "Failed to retrieve sync status")
		return
	}

	var newBytes int64
	for i := range files {
		newBytes += files[i].FileSize
	}

	utils.JSON200(c, dto.SyncStatusResponse{
		Since:       sincePtr,
		PendingNone: len(files) == 0,
		NewCount:    len(files),
		NewBytes:    newBytes,
	})
}

// respondIngestError maps the closed error-kind set onto HTTP statuses.
func (ctrl *Controller) respondIngestError(c *gin.Context, err error) {
	ctx := c.Request.Context()

	switch ingest.KindOf(err) {
	case ingest.KindUserNotFound:
		utils.JSON404(c, "User not found")
	case ingest.KindOverQuota:
		utils.JSON400(c, "Storage limit exceeded")
	case ingest.KindStoreFailed:
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Ingestion store failure")
		utils.JSON500(c, "Server error during file upload")
	default:
		if errors.Is(err, ingest.ErrTooManyFiles) {
			utils.JSON400(c, err.Error())
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[File] Unexpected ingestion failure")
		utils.JSON500(c, "Server error during file upload")
	}
}

// invalidatePhotoCaches drops the Redis entries the write just made stale.
func (ctrl *Controller) invalidatePhotoCaches(c *gin.Context, userID uuid.UUID, fileID *uuid.UUID) {
	ctx := c.Request.Context()

	keys := []string{infra.GalleryCacheKey(userID.String())}
	if fileID != nil {
		keys = append(keys, infra.PhotoMetadataCacheKey(fileID.String()))
	}
	if err := ctrl.Infra.Redis.Delete(ctx, keys...); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[File] Cache invalidation failed for user %s: %v", userID, err)
	}
}
