package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/handler"
	"github.com/stemsi/facetrack-backend/internal/middleware"
	"github.com/stemsi/facetrack-backend/internal/model"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth          *handler.AuthHandler
	Student       *handler.StudentHandler
	Lecturer      *handler.LecturerHandler
	Catalog       *handler.CatalogHandler
	Attendance    *handler.AttendanceHandler
	Register      *handler.RegisterHandler
	StudentPortal *handler.StudentPortalHandler
	Face          *handler.FaceHandler
	WS            *handler.WSHandler
	Health        *handler.HealthHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background goroutines such as the rate limiter sweeper.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()
	router.MaxMultipartMemory = cfg.MaxUploadBytes

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition", "Retry-After"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware(log))
	router.Use(middleware.Brotli())

	router.GET("/health", handlers.Health.Health)

	requireAuth := []gin.HandlerFunc{
		middleware.RequireJWT(authService),
		middleware.CheckSession(authService),
	}
	withRole := func(roles ...model.Role) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, requireAuth...), middleware.RequireRole(roles...))
	}

	// Student photos, behind auth. Browsers load them through <img src="...?token=">.
	photos := router.Group("/photos")
	photos.Use(withRole(model.RoleAdmin, model.RoleLecturer)...)
	photos.Use(middleware.CacheControl(true, 300))
	{
		photos.GET("/:file", handlers.Face.Photo)
	}

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	loginLimiter := middleware.NewRateLimiter(ctx, cfg.LoginRateLimit, time.Minute)
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", loginLimiter.Middleware(), handlers.Auth.Login)
		auth.POST("/student/login", loginLimiter.Middleware(), handlers.Auth.StudentLogin)

		auth.POST("/logout", append(requireAuth, handlers.Auth.Logout)...)
		auth.GET("/me", append(requireAuth, handlers.Auth.Me)...)
	}

	// ─── 2. Admin Group ────────────────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(withRole(model.RoleAdmin)...)
	{
		adminAPI.GET("/students", handlers.Student.List)
		adminAPI.POST("/students", handlers.Student.Enroll)
		adminAPI.GET("/students/:student_id", handlers.Student.Get)
		adminAPI.PUT("/students/:student_id", handlers.Student.Update)
		adminAPI.DELETE("/students/:student_id", handlers.Student.Delete)

		adminAPI.GET("/lecturers", handlers.Lecturer.List)
		adminAPI.POST("/lecturers", handlers.Lecturer.Create)
		adminAPI.GET("/lecturers/:id", handlers.Lecturer.Get)
		adminAPI.PUT("/lecturers/:id", handlers.Lecturer.Update)
		adminAPI.DELETE("/lecturers/:id", handlers.Lecturer.Delete)

		adminAPI.GET("/qualifications", handlers.Catalog.ListQualifications)
		adminAPI.POST("/qualifications", handlers.Catalog.CreateQualification)
		adminAPI.PUT("/qualifications/:id", handlers.Catalog.UpdateQualification)
		adminAPI.DELETE("/qualifications/:id", handlers.Catalog.DeleteQualification)

		adminAPI.GET("/modules", handlers.Catalog.ListModules)
		adminAPI.POST("/modules", handlers.Catalog.CreateModule)
		adminAPI.PUT("/modules/:id", handlers.Catalog.UpdateModule)
		adminAPI.DELETE("/modules/:id", handlers.Catalog.DeleteModule)

		adminAPI.POST("/faces/reload", handlers.Face.Reload)
		adminAPI.GET("/faces/stats", handlers.Face.Stats)
	}

	// ─── 3. Lecturer Group ─────────────────────────────────────────────
	lecturerAPI := router.Group("/api/v1/lecturer")
	lecturerAPI.Use(withRole(model.RoleLecturer)...)
	{
		lecturerAPI.GET("/qualifications", handlers.Catalog.ListQualifications)
		lecturerAPI.GET("/modules", handlers.Catalog.ListModules)
		lecturerAPI.GET("/students", handlers.Student.List)

		lecturerAPI.POST("/attendance/identify", handlers.Attendance.Identify)
		lecturerAPI.POST("/attendance/mark-register", handlers.Attendance.MarkRegister)
		lecturerAPI.POST("/attendance/award-marks", handlers.Attendance.AwardMarks)
		lecturerAPI.POST("/attendance/live", handlers.Attendance.Live)
		lecturerAPI.GET("/attendance/records", handlers.Attendance.Records)

		lecturerAPI.GET("/registers", handlers.Register.List)
		lecturerAPI.POST("/registers", handlers.Register.Save)
		lecturerAPI.POST("/registers/export", middleware.NoStore(), handlers.Register.ExportForm)
		lecturerAPI.GET("/registers/:id", handlers.Register.Get)
		lecturerAPI.GET("/registers/:id/export", middleware.NoStore(), handlers.Register.ExportSaved)
	}

	// ─── 4. Student Group ──────────────────────────────────────────────
	studentAPI := router.Group("/api/v1/student")
	studentAPI.Use(withRole(model.RoleStudent)...)
	{
		studentAPI.GET("/dashboard", handlers.StudentPortal.Dashboard)
		studentAPI.GET("/attendance-records", handlers.StudentPortal.Records)
	}

	// ─── 5. WebSocket Group ────────────────────────────────────────────
	// Browsers cannot set headers on upgrade requests, so the token rides in ?token=.
	ws := router.Group("/ws/v1")
	ws.Use(withRole(model.RoleLecturer)...)
	{
		ws.GET("/lecturer/live-attendance", handlers.WS.LiveAttendance)
	}

	return router
}
