package workers

import (
	"context"
	"time"

	"campusjobs_backend/internal/logger"

	"gorm.io/gorm"
)

const jobWorkerName = "job_deadline"

type expiredJobCloser interface {
	CloseExpired(db *gorm.DB, now time.Time) (int64, error)
}

type expiredTokenPurger interface {
	DeleteExpired(db *gorm.DB, now time.Time) (int64, error)
}

// JobWorker закрывает вакансии с прошедшим дедлайном и чистит истекшие refresh-токены.
// Отклики он не трогает.
type JobWorker struct {
	db       *gorm.DB
	jobs     expiredJobCloser
	tokens   expiredTokenPurger
	interval time.Duration
	now      func() time.Time
}

func NewJobWorker(db *gorm.DB, jobs expiredJobCloser, tokens expiredTokenPurger, interval time.Duration) *JobWorker {
	if interval <= 0 {
		interval = time.Hour
	}
	return &JobWorker{
		db:       db,
		jobs:     jobs,
		tokens:   tokens,
		interval: interval,
		now:      time.Now,
	}
}

// Start запускает фоновый цикл; останавливается по ctx
func (w *JobWorker) Start(ctx context.Context) {
	go w.loop(ctx)
}

func (w *JobWorker) loop(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.RunOnce(ctx)
	for {
		select {
		case <-ctx.Done():
			logger.Info("Job worker stopped")
			return
		case <-ticker.C:
			w.RunOnce(ctx)
		}
	}
}

// RunOnce выполняет один проход
func (w *JobWorker) RunOnce(ctx context.Context) {
	now := w.now()
	// Дедлайн - дата: вакансия закрывается на следующий день после него
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	db := w.db
	if db != nil {
		db = db.WithContext(ctx)
	}

	closed, err := w.jobs.CloseExpired(db, today)
	logger.WorkerLog(jobWorkerName, "close_expired_jobs", closed, err)

	if w.tokens != nil {
		purged, err := w.tokens.DeleteExpired(db, now)
		logger.WorkerLog(jobWorkerName, "purge_refresh_tokens", purged, err)
	}
}
