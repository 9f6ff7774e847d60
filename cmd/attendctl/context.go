package main

import (
	"context"
	"sync"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
	"github.com/stemsi/facetrack-backend/internal/database"
	"github.com/stemsi/facetrack-backend/internal/logger"
	"github.com/stemsi/facetrack-backend/internal/repository"
	"github.com/stemsi/facetrack-backend/internal/service"
)

// services are the parts of the backend the CLI drives directly.
type services struct {
	auth      *service.AuthService
	lecturers *service.LecturerService
	students  *service.StudentService
	faces     *service.FaceIndexService
}

// commandContext connects to PostgreSQL and Redis on first use, so commands
// such as --help work without either.
type commandContext struct {
	once sync.Once
	cfg  *config.Config
	log  zerolog.Logger
	pool *pgxpool.Pool
	rdb  *redis.Client
	svc  *services
	err  error
}

func newCommandContext() *commandContext {
	return &commandContext{}
}

func (c *commandContext) services(ctx context.Context) (*services, error) {
	c.once.Do(func() {
		c.cfg = config.Load()
		// Keep console output readable; only problems are logged.
		c.log = logger.Setup("warn", "pretty")

		c.pool, c.err = database.NewPostgresPool(ctx, c.cfg, c.log)
		if c.err != nil {
			return
		}
		c.rdb, c.err = database.NewRedisClient(ctx, c.cfg, c.log)
		if c.err != nil {
			return
		}

		adminRepo := repository.NewAdminRepository(c.pool)
		lecturerRepo := repository.NewLecturerRepository(c.pool)
		studentRepo := repository.NewStudentRepository(c.pool)
		qualRepo := repository.NewQualificationRepository(c.pool)

		auth := service.NewAuthService(c.cfg, adminRepo, lecturerRepo, studentRepo, repository.NewSessionStore(c.rdb), c.log)
		// The CLI never detects faces, it only loads stored encodings.
		faces := service.NewFaceIndexService(c.cfg, studentRepo, nil, c.rdb, c.log)
		c.svc = &services{
			auth:      auth,
			lecturers: service.NewLecturerService(lecturerRepo, auth, c.log),
			students:  service.NewStudentService(studentRepo, qualRepo, faces, service.NewPhotoService(c.cfg), auth, c.log),
			faces:     faces,
		}
	})
	return c.svc, c.err
}

func (c *commandContext) close() {
	if c.rdb != nil {
		c.rdb.Close()
	}
	if c.pool != nil {
		c.pool.Close()
	}
}
