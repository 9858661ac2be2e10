package cron

import (
	"context"
	"time"

	"mentorline/config"
	"mentorline/middleware"
	"mentorline/services/conversation"
	"mentorline/utils"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Task type names.
const (
	TaskReapSessions   = "sessions:reap"
	TaskCleanupLimiter = "limiters:cleanup"
)

// Worker runs the background task queue: the periodic session abandonment
// sweep and rate-limiter housekeeping.
type Worker struct {
	reaper    *conversation.Reaper
	server    *asynq.Server
	scheduler *asynq.Scheduler
}

func redisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// NewWorker creates the worker and its schedule.
func NewWorker(reaper *conversation.Reaper) *Worker {
	server := asynq.NewServer(redisOpt(), asynq.Config{
		Concurrency: 2,
	})
	scheduler := asynq.NewScheduler(redisOpt(), nil)
	return &Worker{reaper: reaper, server: server, scheduler: scheduler}
}

// Run registers the periodic tasks and blocks serving them.
func (w *Worker) Run() error {
	logger := utils.GetLogger().With(zap.String("component", "cron"))

	if _, err := w.scheduler.Register("@every 5m", asynq.NewTask(TaskReapSessions, nil)); err != nil {
		return err
	}
	if _, err := w.scheduler.Register("@every 30m", asynq.NewTask(TaskCleanupLimiter, nil)); err != nil {
		return err
	}
	if err := w.scheduler.Start(); err != nil {
		return err
	}

	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskReapSessions, func(ctx context.Context, _ *asynq.Task) error {
		n, err := w.reaper.Sweep()
		if err != nil {
			logger.Error("session sweep failed", zap.Error(err))
			return err
		}
		logger.Debug("session sweep done", zap.Int("abandoned", n))
		return nil
	})
	mux.HandleFunc(TaskCleanupLimiter, func(_ context.Context, _ *asynq.Task) error {
		middleware.CleanupLimiters(time.Hour)
		return nil
	})

	return w.server.Run(mux)
}

// Shutdown stops the scheduler and drains the server.
func (w *Worker) Shutdown() {
	w.scheduler.Shutdown()
	w.server.Shutdown()
}

// RunInlineSweeper is the fallback when no Redis queue is available (memory
// backend): a plain ticker driving the same sweep until ctx is done.
func RunInlineSweeper(ctx context.Context, reaper *conversation.Reaper, interval time.Duration) {
	logger := utils.GetLogger().With(zap.String("component", "cron"))
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := reaper.Sweep(); err != nil {
				logger.Error("session sweep failed", zap.Error(err))
			}
			middleware.CleanupLimiters(time.Hour)
		}
	}
}
