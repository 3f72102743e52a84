package controller

import (
	"errors"
	"sort"
	"time"

	"github.com/cloudstore-app/cloudstore-service/entity"
	"github.com/cloudstore-app/cloudstore-service/http/controller/dto"
	"github.com/cloudstore-app/cloudstore-service/infra"
	"github.com/cloudstore-app/cloudstore-service/ingest"
	"github.com/cloudstore-app/cloudstore-service/utils"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	galleryCacheTTL  = 5 * time.Minute
	metadataCacheTTL = 10 * time.Minute
)

// BatchUpload ingests up to the configured maximum of multipart files in one
// request. Admission is all-or-nothing on the declared total; per-file
// failures are tolerated and reported in failedCount.
func (ctrl *Controller) BatchUpload(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		utils.JSON400(c, "Invalid multipart form")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		utils.JSON400(c, "No files uploaded")
		return
	}

	for _, fh := range fileHeaders {
		if fh.Size > ctrl.Config.EnvConfig.Storage.MaxUploadSize {
			utils.JSON413(c, "File "+fh.Filename+" exceeds maximum upload size")
			return
		}
	}

	declaredType := entity.FileType(c.PostForm("type"))
	autoOrganize := c.PostForm("auto_organize") == "true"

	uploads := make([]ingest.Upload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		src, err := fh.Open()
		if err != nil {
			ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Batch] Failed to open multipart file %q", fh.Filename)
			utils.JSON500(c, "Failed to read uploaded files")
			return
		}
		defer src.Close()
		uploads = append(uploads, ingest.Upload{
			OriginalName: fh.Filename,
			DeclaredType: declaredType,
			Body:         src,
			Size:         fh.Size,
		})
	}

	result, err := ctrl.Batch.Ingest(ctx, userID, uploads, autoOrganize)
	if err != nil {
		ctrl.respondIngestError(c, err)
		return
	}

	ctrl.invalidatePhotoCaches(c, userID, nil)

	views := make([]dto.FileView, 0, len(result.Succeeded))
	for _, res := range result.Succeeded {
		views = append(views, dto.NewFileView(res.Record))
	}

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Batch] Uploaded %d/%d files (%d bytes) for user %s",
		len(result.Succeeded), len(uploads), result.BytesCommitted, userID)
	utils.JSON201(c, dto.BatchUploadResponse{
		Succeeded:   views,
		FailedCount: result.FailedCount,
	})
}

// GetPhotosByDate groups the user's images by capture day, newest day first.
// Images without extracted metadata fall back to their upload time.
func (ctrl *Controller) GetPhotosByDate(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	files, err := ctrl.Repository.FileRepo.FindImagesByUserWithMetadata(ctx, userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to load images for user %s", userID)
		utils.JSON500(c, "Failed to retrieve photos")
		return
	}

	grouped := make(map[string][]dto.FileView)
	for i := range files {
		when := files[i].CreatedAt
		if files[i].Metadata != nil && files[i].Metadata.DateTaken != nil {
			when = *files[i].Metadata.DateTaken
		}
		day := when.Format("2006-01-02")
		grouped[day] = append(grouped[day], dto.NewFileView(&files[i]))
	}

	groups := make([]dto.PhotoGroup, 0, len(grouped))
	for day, photos := range grouped {
		groups = append(groups, dto.PhotoGroup{Date: day, Photos: photos})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Date > groups[j].Date
	})

	utils.JSON200(c, groups)
}

// GetPhotoGallery lists the user's images, served from Redis when fresh.
func (ctrl *Controller) GetPhotoGallery(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	cacheKey := infra.GalleryCacheKey(userID.String())
	var cached []dto.FileView
	if err := ctrl.Infra.Redis.Get(ctx, cacheKey, &cached); err == nil {
		utils.JSON200(c, cached)
		return
	} else if !errors.Is(err, infra.ErrCacheMiss) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Photo] Gallery cache read failed for user %s: %v", userID, err)
	}

	files, err := ctrl.Repository.FileRepo.FindImagesByUser(ctx, userID)
	if err != nil {
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to load gallery for user %s", userID)
		utils.JSON500(c, "Failed to retrieve gallery")
		return
	}

	views := dto.NewFileViews(files)
	if err := ctrl.Infra.Redis.Set(ctx, cacheKey, views, galleryCacheTTL); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Photo] Gallery cache write failed for user %s: %v", userID, err)
	}

	utils.JSON200(c, views)
}

// OrganizePhotos runs the organizer synchronously over the caller's storage
// tree and returns the counters.
func (ctrl *Controller) OrganizePhotos(c *gin.Context) {
	ctx := c.Request.Context()

	userID, err := utils.UserIDFromContext(c)
	if err != nil {
		utils.JSON401(c, "Unauthorized: "+err.Error())
		return
	}

	report := ctrl.Organizer.Organize(ctx, userID)

	ctrl.Infra.Logger.InfoWithContextf(ctx, "[Photo] Organized %d/%d photos for user %s (failed=%d skipped=%d)",
		report.Organized, report.Total, userID, report.Failed, report.Skipped)
	utils.JSON200(c, report)
}

// GetPhotoMetadata returns the extracted EXIF-derived metadata for one image.
func (ctrl *Controller) GetPhotoMetadata(c *gin.Context) {
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
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to fetch file %s", fileID)
		utils.JSON500(c, "Failed to retrieve file")
		return
	}

	if file.FileType != entity.FileTypeImage {
		utils.JSON400(c, "File is not an image")
		return
	}

	cacheKey := infra.PhotoMetadataCacheKey(fileID.String())
	var cached dto.MetadataView
	if err := ctrl.Infra.Redis.Get(ctx, cacheKey, &cached); err == nil {
		utils.JSON200(c, cached)
		return
	} else if !errors.Is(err, infra.ErrCacheMiss) {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Photo] Metadata cache read failed for file %s: %v", fileID, err)
	}

	meta, err := ctrl.Repository.PhotoMetadataRepo.FindByFileID(ctx, fileID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			utils.JSON404(c, "No metadata recorded for this photo")
			return
		}
		ctrl.Infra.Logger.ErrorWithContextf(ctx, err, "[Photo] Failed to fetch metadata for file %s", fileID)
		utils.JSON500(c, "Failed to retrieve photo metadata")
		return
	}

	view := dto.NewMetadataView(meta)
	if err := ctrl.Infra.Redis.Set(ctx, cacheKey, view, metadataCacheTTL); err != nil {
		ctrl.Infra.Logger.WarningWithContextf(ctx, "[Photo] Metadata cache write failed for file %s: %v", fileID, err)
	}

	utils.JSON200(c, view)
}
