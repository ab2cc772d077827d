package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
	"github.com/shaiso/Postline/internal/telemetry"
)

// defaultBatchSize — максимум постов за один цикл.
const defaultBatchSize = 100

// PostStore — операции над постами, нужные scheduler'у.
// Реализуется repo.PostRepo.
type PostStore interface {
	// ListDue возвращает scheduled посты с прошедшим scheduled_at.
	ListDue(ctx context.Context, now time.Time, limit int) ([]domain.Post, error)

	// MarkQueued — guarded-переход scheduled → queued.
	// false без ошибки означает проигранный guard (пропускаем молча).
	MarkQueued(ctx context.Context, id uuid.UUID) (bool, error)
}

// EventPublisher — анонс поставленных в очередь постов downstream-пайплайну.
// Реализуется mq.Publisher. Nil — допустимое состояние (state-only режим).
type EventPublisher interface {
	PublishPostQueued(ctx context.Context, postID, userID uuid.UUID) error
}

// Scheduler — планировщик, переводящий due посты в очередь публикации.
type Scheduler struct {
	posts     PostStore
	publisher EventPublisher
	logger    *slog.Logger
	batchSize int
}

// Config — конфигурация Scheduler.
type Config struct {
	Posts     PostStore
	Publisher EventPublisher // опционально
	Logger    *slog.Logger
	BatchSize int // количество постов за один цикл (default: 100)
}

// New создаёт новый Scheduler.
func New(cfg Config) *Scheduler {
	batchSize := cfg.BatchSize
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Scheduler{
		posts:     cfg.Posts,
		publisher: cfg.Publisher,
		logger:    logger,
		batchSize: batchSize,
	}
}

// Cycle выполняет один цикл планировщика.
//
// 1. Находит due посты (status=scheduled, scheduled_at <= now)
// 2. Для каждого выполняет guarded-переход scheduled → queued
// 3. Публикует post.queued в RabbitMQ (если publisher настроен)
//
// Ошибка выборки прерывает весь цикл (следующий цикл — retry).
// Ошибка перехода одного поста изолирована и не блокирует остальные.
// Возвращает количество успешно поставленных в очередь постов.
func (s *Scheduler) Cycle(ctx context.Context, now time.Time) (int, error) {
	due, err := s.posts.ListDue(ctx, now, s.batchSize)
	if err != nil {
		telemetry.CycleRuns.WithLabelValues("post_scheduler", "error").Inc()
		return 0, fmt.Errorf("list due posts: %w", err)
	}

	if len(due) == 0 {
		telemetry.CycleRuns.WithLabelValues("post_scheduler", "ok").Inc()
		return 0, nil
	}

	s.logger.Debug("found due posts", "count", len(due))

	var queued int
	for i := range due {
		post := &due[i]

		ok, err := s.posts.MarkQueued(ctx, post.ID)
		if err != nil {
			telemetry.PostQueueFailures.Inc()
			s.logger.Error("failed to queue post",
				"post_id", post.ID,
				"user_id", post.UserID,
				"error", err,
			)
			// Продолжаем обработку остальных
			continue
		}

		if !ok {
			// Guard проиграл: конкурентный цикл или пользователь
			// успел изменить статус. Не ошибка — пропускаем молча.
			s.logger.Debug("post no longer scheduled, skipping", "post_id", post.ID)
			continue
		}

		queued++
		telemetry.PostsQueued.Inc()
		s.logger.Info("queued post for publishing",
			"post_id", post.ID,
			"user_id", post.UserID,
			"scheduled_at", post.ScheduledAt,
		)

		if s.publisher != nil {
			if err := s.publisher.PublishPostQueued(ctx, post.ID, post.UserID); err != nil {
				// Не фатальная ошибка — статус уже в БД,
				// publishing pipeline подберёт пост через polling.
				s.logger.Warn("failed to publish post.queued",
					"post_id", post.ID,
					"error", err,
				)
			}
		}
	}

	telemetry.CycleRuns.WithLabelValues("post_scheduler", "ok").Inc()
	s.logger.Info("scheduler cycle completed",
		"due", len(due),
		"queued", queued,
	)

	return queued, nil
}

// Run — адаптер под ticker.CycleFunc.
func (s *Scheduler) Run(ctx context.Context) error {
	_, err := s.Cycle(ctx, time.Now())
	return err
}
