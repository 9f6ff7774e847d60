package worker

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stemsi/facetrack-backend/internal/config"
)

// FaceReloader rebuilds the face index when another instance changed students.
type FaceReloader interface {
	HandleReloadNotice(ctx context.Context, origin string) error
}

// FaceReloadWorker listens on the reload channel and keeps this instance's
// face index in step with the others. A periodic full reload covers notices
// lost while the subscription was reconnecting.
type FaceReloadWorker struct {
	rdb      *redis.Client
	faces    FaceReloader
	interval time.Duration
	log      zerolog.Logger
}

// NewFaceReloadWorker creates a new FaceReloadWorker. interval <= 0 disables
// the periodic reload.
func NewFaceReloadWorker(rdb *redis.Client, faces FaceReloader, interval time.Duration, log zerolog.Logger) *FaceReloadWorker {
	return &FaceReloadWorker{
		rdb:      rdb,
		faces:    faces,
		interval: interval,
		log:      log.With().Str("component", "face_reload_worker").Logger(),
	}
}

// Start begins the worker loop. Call in a goroutine.
func (w *FaceReloadWorker) Start(ctx context.Context) {
	w.log.Info().Msg("Worker started")

	sub := w.rdb.Subscribe(ctx, config.WorkerKey.FaceIndexReloadChannel)
	defer sub.Close()

	var tick <-chan time.Time
	if w.interval > 0 {
		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	w.run(ctx, sub.Channel(), tick)
	w.log.Info().Msg("Worker stopped")
}

func (w *FaceReloadWorker) run(ctx context.Context, notices <-chan *redis.Message, tick <-chan time.Time) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-notices:
			if !ok {
				return
			}
			w.reload(ctx, msg.Payload)
		case <-tick:
			// An empty origin never matches an instance ID, so this always reloads.
			w.reload(ctx, "")
		}
	}
}

func (w *FaceReloadWorker) reload(ctx context.Context, origin string) {
	if err := w.faces.HandleReloadNotice(ctx, origin); err != nil && ctx.Err() == nil {
		w.log.Error().Err(err).Str("origin", origin).Msg("Face index reload failed")
	}
}
