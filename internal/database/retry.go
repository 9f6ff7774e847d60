package database

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// connectAttempts bounds startup waits for Postgres and Redis, which often come
// up after the API container.
const (
	connectAttempts = 5
	connectBackoff  = 2 * time.Second
)

// retry calls fn until it succeeds, attempts run out or ctx ends. The delay
// doubles after each failure.
func retry(ctx context.Context, log zerolog.Logger, what string, attempts int, delay time.Duration, fn func(context.Context) error) error {
	var err error
	for i := 1; i <= attempts; i++ {
		if err = fn(ctx); err == nil {
			return nil
		}
		if i == attempts {
			break
		}
		log.Warn().Err(err).Int("attempt", i).Dur("retry_in", delay).Msgf("%s not ready", what)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return fmt.Errorf("%s unreachable after %d attempts: %w", what, attempts, err)
}
