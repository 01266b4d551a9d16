// Package scheduler triggers the orchestrator's daily entry point.
package scheduler

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

// Every runs task immediately and then on every tick until ctx is
// canceled. Task errors are logged, never fatal: the next tick retries.
func Every(ctx context.Context, interval time.Duration, name string, task Task, logger *zap.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()

	run := func() {
		if err := task(ctx); err != nil {
			logger.Error("scheduled task failed", zap.String("task", name), zap.Error(err))
		}
	}

	run()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run()
		}
	}
}
