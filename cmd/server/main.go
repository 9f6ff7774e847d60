package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/database"
	"github.com/stemsi/facetrack-backend/internal/face/dlib"
	"github.com/stemsi/facetrack-backend/internal/handler"
	"github.com/stemsi/facetrack-backend/internal/logger"
	"github.com/stemsi/facetrack-backend/internal/report"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stemsi/facetrack-backend/internal/router"
	"github.com/stemsi/facetrack-backend/internal/service"
	"github.com/stemsi/facetrack-backend/internal/validator"
	"github.com/stemsi/facetrack-backend/internal/worker"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting FaceTrack Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Load Face Recognition Models ──────────────────────────────────
	recognizer, err := dlib.New(cfg.FaceModelDir)
	if err != nil {
		log.Fatal().Err(err).Str("dir", cfg.FaceModelDir).Msg("Failed to load face models")
	}
	defer recognizer.Close()

	if err := os.MkdirAll(cfg.PhotoDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.PhotoDir).Msg("Failed to create photo directory")
	}

	// ─── Initialize Repositories ───────────────────────────────────────
	adminRepo := repository.NewAdminRepository(pool)
	lecturerRepo := repository.NewLecturerRepository(pool)
	qualRepo := repository.NewQualificationRepository(pool)
	moduleRepo := repository.NewModuleRepository(pool)
	studentRepo := repository.NewStudentRepository(pool)
	attendanceRepo := repository.NewAttendanceRepository(pool)
	registerRepo := repository.NewRegisterRepository(pool)
	sessionStore := repository.NewSessionStore(rdb)
	liveStore := repository.NewLiveAttendanceStore(rdb)

	// ─── Initialize Services ──────────────────────────────────────────
	faceService := service.NewFaceIndexService(cfg, studentRepo, recognizer, rdb, log)
	authService := service.NewAuthService(cfg, adminRepo, lecturerRepo, studentRepo, sessionStore, log)
	photoService := service.NewPhotoService(cfg)
	studentService := service.NewStudentService(studentRepo, qualRepo, faceService, photoService, authService, log)
	lecturerService := service.NewLecturerService(lecturerRepo, authService, log)
	qualService := service.NewQualificationService(qualRepo, log)
	moduleService := service.NewModuleService(moduleRepo, qualRepo, log)
	attendanceService := service.NewAttendanceService(studentRepo, qualRepo, moduleRepo, lecturerRepo,
		attendanceRepo, liveStore, faceService, log)
	pdfRenderer, err := report.NewPDFRenderer(cfg.PDFFontPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.PDFFontPath).Msg("Failed to load PDF font")
	}
	registerService := service.NewRegisterService(registerRepo, studentRepo, pdfRenderer, log)

	// ─── Seed Default Admin ───────────────────────────────────────────
	if _, err := authService.EnsureAdmin(ctx, cfg.SeedAdminUsername, cfg.SeedAdminPassword); err != nil {
		log.Fatal().Err(err).Msg("Failed to seed admin account")
	}

	// ─── Load Face Index ──────────────────────────────────────────────
	// The index must be complete BEFORE accepting traffic, otherwise early
	// registers would mark enrolled students absent.
	if _, err := faceService.Load(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to load face index")
	}

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		Student:       handler.NewStudentHandler(studentService, photoService),
		Lecturer:      handler.NewLecturerHandler(lecturerService),
		Catalog:       handler.NewCatalogHandler(qualService, moduleService),
		Attendance:    handler.NewAttendanceHandler(attendanceService, studentService, photoService),
		Register:      handler.NewRegisterHandler(registerService, lecturerService),
		StudentPortal: handler.NewStudentPortalHandler(attendanceService),
		Face:          handler.NewFaceHandler(faceService, photoService),
		WS:            handler.NewWSHandler(attendanceService, photoService, log, cfg.AllowedOrigins, cfg.MaxUploadBytes),
		Health:        handler.NewHealthHandler(pool, rdb, faceService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	reloadWorker := worker.NewFaceReloadWorker(rdb, faceService, cfg.FaceReloadInterval, log)
	go func() {
		reloadWorker.Start(workerCtx)
		close(workerDone)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(workerCtx, authService, handlers, cfg, log)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests (5s timeout).
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the reload subscriber.
	workerCancel()
	select {
	case <-workerDone:
	case <-shutdownCtx.Done():
		log.Warn().Msg("Worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
