package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/facetrack-backend/internal/response"
	"github.com/stemsi/facetrack-backend/internal/service"
)

// HealthHandler reports liveness of the process and its dependencies.
// Nil clients are reported as skipped.
type HealthHandler struct {
	pool        *pgxpool.Pool
	rdb         *redis.Client
	faceService *service.FaceIndexService
}

func NewHealthHandler(pool *pgxpool.Pool, rdb *redis.Client, faceService *service.FaceIndexService) *HealthHandler {
	return &HealthHandler{pool: pool, rdb: rdb, faceService: faceService}
}

// Health godoc
// GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := gin.H{"database": "skipped", "redis": "skipped"}
	if h.pool != nil {
		checks["database"] = "ok"
		if err := h.pool.Ping(ctx); err != nil {
			checks["database"] = "down"
			status = http.StatusServiceUnavailable
		}
	}
	if h.rdb != nil {
		checks["redis"] = "ok"
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			checks["redis"] = "down"
			status = http.StatusServiceUnavailable
		}
	}

	response.Success(c, status, gin.H{
		"status":      http.StatusText(status),
		"checks":      checks,
		"faces_index": h.faceService.Stats().Count,
	})
}
