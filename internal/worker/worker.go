package worker

import (
	"context"
	"log/slog"
	"time"
)

// CycleRunner определяет интерфейс одного полного цикла скрейпинга:
// загрузка состояния, проход по лентам, вывод и сохранение.
type CycleRunner interface {
	RunCycle(ctx context.Context) error
}

// Worker реализует фонового воркера для периодического скрейпинга.
// Первый цикл выполняется сразу при старте, дальше по расписанию.
type Worker struct {
	runner   CycleRunner
	interval time.Duration
	log      *slog.Logger
	ctx      context.Context
	cancel   context.CancelFunc
	done     chan struct{}
}

// New создает нового воркера с заданным интервалом опроса.
func New(runner CycleRunner, interval time.Duration, log *slog.Logger) *Worker {
	return &Worker{
		runner:   runner,
		interval: interval,
		log:      log,
	}
}

// Start запускает воркер в отдельной горутине.
func (w *Worker) Start() {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	w.done = make(chan struct{})
	go w.run()
}

// Stop останавливает воркер и дожидается завершения текущего цикла.
func (w *Worker) Stop() {
	if w.cancel != nil {
		w.cancel()
		<-w.done
	}
}

// GetInterval возвращает интервал опроса лент.
func (w *Worker) GetInterval() time.Duration { return w.interval }

// run выполняет основной цикл работы воркера.
func (w *Worker) run() {
	defer close(w.done)
	w.log.Info("Polling worker started",
		slog.String("component", "worker"),
		slog.String("interval", w.interval.String()),
	)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	w.runCycle()
	for {
		select {
		case <-ticker.C:
			w.runCycle()
		case <-w.ctx.Done():
			w.log.Info("Worker stopping", slog.String("component", "worker"))
			return
		}
	}
}

// runCycle выполняет один цикл. Ошибка цикла (в том числе фатальная для
// этого запуска ошибка хранилища) логируется, воркер продолжает работу
// по расписанию - состояние на диске остается прежним.
func (w *Worker) runCycle() {
	start := time.Now()
	if err := w.runner.RunCycle(w.ctx); err != nil {
		w.log.Error("Scrape cycle failed",
			slog.String("component", "worker"),
			slog.Any("error", err),
		)
		return
	}
	w.log.Info("Scrape cycle completed",
		slog.String("component", "worker"),
		slog.Duration("duration", time.Since(start)),
	)
}
