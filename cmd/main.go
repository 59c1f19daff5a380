package main

import (
	"fmt"
	"os"

	"github.com/Dheolarh/SkoolMeBackend/internal/clients/gcp"
	"github.com/Dheolarh/SkoolMeBackend/internal/handlers"
	"github.com/Dheolarh/SkoolMeBackend/internal/logger"
	"github.com/Dheolarh/SkoolMeBackend/internal/server"
	"github.com/Dheolarh/SkoolMeBackend/internal/services"
	"github.com/Dheolarh/SkoolMeBackend/internal/sse"
	"github.com/Dheolarh/SkoolMeBackend/internal/utils"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Env
	log.Info("Loading environment variables from main...")
	port := utils.GetEnv("PORT", "5000", log)
	uploadDir := utils.GetEnv("UPLOAD_DIR", "uploads", log)
	bucketName := utils.GetEnv("AUDIO_GCS_BUCKET_NAME", "skoolme-audio", log)
	maxUploadMB := utils.GetEnvAsInt("MAX_UPLOAD_MB", 100, log)

	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		log.Error("Could not create upload directory", "dir", uploadDir, "error", err)
		os.Exit(1)
	}

	// GCP clients
	log.Info("Setting up GCP clients from main...")
	visionClient, err := gcp.NewVision(log)
	if err != nil {
		log.Warn("Could not init Vision client", "error", err)
	}
	speechClient, err := gcp.NewSpeech(log)
	if err != nil {
		log.Warn("Could not init Speech client", "error", err)
	}
	bucketClient, err := gcp.NewBucket(log, bucketName)
	if err != nil {
		log.Warn("Could not init Storage bucket", "error", err)
	}

	// SSE
	log.Info("Setting up SSE hub now...")
	sseHub := sse.NewHub(log)

	// Services
	log.Info("Setting up Services from main...")
	sessionStore := services.NewSessionStore(log)
	documentExtract := services.NewDocumentExtractService(log, visionClient)
	audioExtract := services.NewAudioExtractService(log, bucketClient, speechClient)
	extractor := services.NewContentExtractor(log, documentExtract, audioExtract)
	analysisService := services.NewAnalysisService(log, sessionStore, extractor, sseHub, uploadDir)
	courseGenService := services.NewCourseGenService(log)

	// Handlers
	log.Info("Setting up handlers from main...")
	uploadHandler := handlers.NewUploadHandler(log, sessionStore, uploadDir)
	analysisHandler := handlers.NewAnalysisHandler(log, sessionStore, analysisService, sseHub, uploadDir)
	courseHandler := handlers.NewCourseHandler(log, sessionStore, courseGenService)
	healthcheckHandler := handlers.NewHealthcheckHandler(log, sessionStore, uploadDir)

	// Router
	log.Info("Setting up router from main...")
	router := server.NewRouter(server.RouterConfig{
		UploadHandler:      uploadHandler,
		AnalysisHandler:    analysisHandler,
		CourseHandler:      courseHandler,
		HealthcheckHandler: healthcheckHandler,
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:5174",
		},
		MaxUploadBytes: int64(maxUploadMB) << 20,
	})

	fmt.Printf("Server listening on :%s\n", port)
	if err := router.Run(":" + port); err != nil {
		log.Warn("Server failed", "error", err)
	}
}
