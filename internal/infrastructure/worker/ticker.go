package worker

import (
	"context"
	"time"

	"cryptorate-service/internal/application"
	"go.uber.org/zap"
)

var _ application.Worker = (*TickerWorker)(nil)

// TickerWorker runs Job every Interval. A run is skipped when Guard reports
// that another run still holds Key.
type TickerWorker struct {
	Key       string
	Job       func(ctx context.Context) error
	Interval  time.Duration
	RunAtBoot bool
	Guard     application.RefreshGuard
	Log       *zap.Logger
}

func (w *TickerWorker) Start(ctx context.Context) {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("job", w.Key))
	if w.Guard == nil {
		w.Guard = application.NewLocalGuard()
	}

	if w.Interval <= 0 {
		log.Error("job_worker_invalid_interval", zap.Duration("interval", w.Interval))
		return
	}

	log.Info("job_worker_started", zap.Duration("interval", w.Interval), zap.Bool("run_at_boot", w.RunAtBoot))
	if w.RunAtBoot {
		w.tick(ctx, log)
	}

	t := time.NewTicker(w.Interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Info("job_worker_stopped")
			return
		case <-t.C:
			w.tick(ctx, log)
		}
	}
}

func (w *TickerWorker) tick(ctx context.Context, log *zap.Logger) {
	if ctx.Err() != nil {
		return
	}
	ok, err := w.Guard.TryReserve(ctx, w.Key)
	if err != nil {
		log.Warn("job.reserve_failed", zap.Error(err))
		return
	}
	if !ok {
		log.Debug("job.skipped_in_flight")
		return
	}
	defer func() {
		// Release must survive a canceled run context.
		if err := w.Guard.Release(context.WithoutCancel(ctx), w.Key); err != nil {
			log.Warn("job.release_failed", zap.Error(err))
		}
	}()

	c, cancel := context.WithTimeout(ctx, w.Interval)
	defer cancel()
	if err := w.Job(c); err != nil {
		log.Warn("job.failed", zap.Error(err))
	}
}
