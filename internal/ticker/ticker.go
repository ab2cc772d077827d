package ticker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser — парсер 5-полевых cron-выражений.
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CycleFunc — функция одного цикла.
// Ошибка логируется и не останавливает loop: следующий цикл — retry.
type CycleFunc func(ctx context.Context) error

// Loop периодически выполняет функцию цикла.
//
// Семантика:
//   - Первый цикл выполняется сразу при Start (разбор backlog'а,
//     накопившегося пока процесс был выключен).
//   - Дальше — по фиксированному интервалу либо по cron-выражению.
//   - Start идемпотентен: повторный вызов на запущенном loop'е — no-op.
//   - Stop не прерывает цикл посреди работы: будущие срабатывания
//     отменяются, а текущий цикл доводит свою работу до собственного
//     завершения — его контекст остаётся живым. Отмена контекста,
//     переданного в Start, наоборот, обрывает и текущий цикл
//     (process-wide shutdown).
//   - Циклы не перекрываются: loop-горутина последовательна.
type Loop struct {
	name     string
	interval time.Duration
	schedule cron.Schedule
	fn       CycleFunc
	logger   *slog.Logger

	mu      sync.Mutex
	running bool
	quit    chan struct{}
	wg      sync.WaitGroup
}

// Config — конфигурация Loop.
type Config struct {
	// Name — имя loop'а для логов ("post_scheduler", "token_refresher").
	Name string

	// Interval — фиксированный интервал между циклами.
	Interval time.Duration

	// CronExpr — опциональное cron-выражение.
	// Если задано, имеет приоритет над Interval.
	CronExpr string

	// Fn — функция цикла.
	Fn CycleFunc

	// Logger — логгер (по умолчанию slog.Default).
	Logger *slog.Logger
}

// New создаёт новый Loop.
func New(cfg Config) (*Loop, error) {
	if cfg.Fn == nil {
		return nil, fmt.Errorf("loop %q: cycle func is required", cfg.Name)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	l := &Loop{
		name:     cfg.Name,
		interval: cfg.Interval,
		fn:       cfg.Fn,
		logger:   logger.With("loop", cfg.Name),
	}

	if cfg.CronExpr != "" {
		schedule, err := cronParser.Parse(cfg.CronExpr)
		if err != nil {
			return nil, fmt.Errorf("loop %q: parse cron expression %q: %w", cfg.Name, cfg.CronExpr, err)
		}
		l.schedule = schedule
	} else if cfg.Interval <= 0 {
		return nil, fmt.Errorf("loop %q: either interval or cron expression is required", cfg.Name)
	}

	return l, nil
}

// Start запускает loop. Повторный вызов на запущенном loop'е — no-op.
func (l *Loop) Start(ctx context.Context) {
	l.mu.Lock()
	if l.running {
		l.mu.Unlock()
		l.logger.Debug("loop already running")
		return
	}
	quit := make(chan struct{})
	l.running = true
	l.quit = quit
	l.mu.Unlock()

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.run(ctx, quit)
	}()

	l.logger.Info("loop started", "interval", l.interval)
}

// Stop отменяет будущие срабатывания и дожидается текущего цикла.
// Контекст текущего цикла не отменяется: in-flight работа завершается
// своим ходом. Повторный вызов безопасен.
func (l *Loop) Stop() {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		return
	}
	l.running = false
	quit := l.quit
	l.mu.Unlock()

	close(quit)
	l.wg.Wait()

	l.logger.Info("loop stopped")
}

// IsRunning проверяет, запущен ли loop.
func (l *Loop) IsRunning() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.running
}

// run — основной цикл горутины.
func (l *Loop) run(ctx context.Context, quit <-chan struct{}) {
	// Первый цикл сразу при старте
	l.cycle(ctx)

	if l.schedule != nil {
		l.runCron(ctx, quit)
		return
	}
	l.runInterval(ctx, quit)
}

// runInterval — фиксированная каденция.
// time.Ticker держит ровный ритм: длительность цикла не сдвигает
// последующие срабатывания.
func (l *Loop) runInterval(ctx context.Context, quit <-chan struct{}) {
	tk := time.NewTicker(l.interval)
	defer tk.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ctx.Done():
			return
		case <-tk.C:
			l.cycle(ctx)
		}
	}
}

// runCron — cron-каденция: пауза до следующего срабатывания
// пересчитывается после каждого цикла.
func (l *Loop) runCron(ctx context.Context, quit <-chan struct{}) {
	timer := time.NewTimer(l.untilNext(time.Now()))
	defer timer.Stop()

	for {
		select {
		case <-quit:
			return
		case <-ctx.Done():
			return
		case <-timer.C:
			l.cycle(ctx)
			timer.Reset(l.untilNext(time.Now()))
		}
	}
}

// untilNext вычисляет паузу до следующего cron-срабатывания.
func (l *Loop) untilNext(now time.Time) time.Duration {
	return l.schedule.Next(now).Sub(now)
}

// cycle выполняет одну итерацию.
func (l *Loop) cycle(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}

	start := time.Now()
	if err := l.fn(ctx); err != nil {
		l.logger.Error("cycle failed", "error", err, "duration", time.Since(start))
		return
	}
	l.logger.Debug("cycle completed", "duration", time.Since(start))
}

// ValidateCronExpr проверяет валидность cron-выражения.
// Используется при валидации конфигурации.
func ValidateCronExpr(expr string) error {
	if _, err := cronParser.Parse(expr); err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", expr, err)
	}
	return nil
}
