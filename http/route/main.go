package routes

import (
	"github.com/cloudstore-app/cloudstore-service/http/controller"
	middlewares "github.com/cloudstore-app/cloudstore-service/http/middleware"
	"github.com/gin-gonic/gin"
)

func SetupRouter(ctrl *controller.Controller) *gin.Engine {
	r := gin.Default()
	r.MaxMultipartMemory = 32 << 20

	middles, err := middlewares.NewMiddlewares(ctrl)
	if err != nil {
		panic(err)
	}

	r.Use(middles.CORSMiddleware)

	apiRoutes := r.Group("/api/files")
	{
		apiRoutes.Use(middles.AuthMiddleware)

		apiRoutes.POST("/upload", ctrl.UploadFile)
		apiRoutes.POST("/batch-upload", ctrl.BatchUpload)
		apiRoutes.GET("/", ctrl.ListFiles)
		apiRoutes.GET("/summary/types", ctrl.GetFileTypeSummary)
		apiRoutes.GET("/sync/status", ctrl.GetSyncStatus)

		photoRoutes := apiRoutes.Group("/photos")
		{
			photoRoutes.GET("/by-date", ctrl.GetPhotosByDate)
			photoRoutes.GET("/gallery", ctrl.GetPhotoGallery)
			photoRoutes.POST("/organize", ctrl.OrganizePhotos)
		}

		apiRoutes.GET("/:id", ctrl.GetFile)
		apiRoutes.GET("/:id/download", ctrl.DownloadFile)
		apiRoutes.GET("/:id/metadata", ctrl.GetPhotoMetadata)
		apiRoutes.DELETE("/:id", ctrl.DeleteFile)
	}

	return r
}
