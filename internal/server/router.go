package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/Dheolarh/SkoolMeBackend/internal/handlers"
)

type RouterConfig struct {
	UploadHandler      *handlers.UploadHandler
	AnalysisHandler    *handlers.AnalysisHandler
	CourseHandler      *handlers.CourseHandler
	HealthcheckHandler *handlers.HealthcheckHandler
	AllowOrigins       []string
	MaxUploadBytes     int64
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// Cors
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	api := router.Group("/api")
	{
		api.GET("/health", cfg.HealthcheckHandler.Health)
		api.POST("/upload", cfg.UploadHandler.Upload)
		api.POST("/analyze", cfg.AnalysisHandler.Analyze)
		api.GET("/progress/:session_id", cfg.AnalysisHandler.Progress)
		api.GET("/progress/:session_id/stream", cfg.AnalysisHandler.ProgressStream)
		api.DELETE("/cleanup/:session_id", cfg.AnalysisHandler.Cleanup)
		api.POST("/generate-course", cfg.CourseHandler.GenerateCourse)
	}

	return router
}
