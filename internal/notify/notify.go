package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
	"github.com/shaiso/Postline/internal/telemetry"
)

// defaultCooldown — окно дедупликации по умолчанию.
const defaultCooldown = 24 * time.Hour

// Store — хранилище уведомлений, нужное сервису.
// Реализуется repo.NotificationRepo.
type Store interface {
	Create(ctx context.Context, n *domain.Notification) error
	ExistsSince(ctx context.Context, userID uuid.UUID, typ domain.NotificationType, referenceID uuid.UUID, since time.Time) (bool, error)
}

// Service создаёт пользовательские уведомления с дедупликацией.
//
// Для тройки (user, type, reference) — не чаще одного уведомления за
// cooldown-окно. Проверка — lookback-запрос перед созданием:
// check-then-act не атомарен, но потребляющая каденция (раз в час)
// на порядки грубее окна, а писатель в системе один.
type Service struct {
	store    Store
	cooldown time.Duration
	logger   *slog.Logger
}

// Config — конфигурация Service.
type Config struct {
	Store    Store
	Cooldown time.Duration // окно дедупликации (default: 24h)
	Logger   *slog.Logger
}

// New создаёт новый Service.
func New(cfg Config) *Service {
	cooldown := cfg.Cooldown
	if cooldown <= 0 {
		cooldown = defaultCooldown
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		store:    cfg.Store,
		cooldown: cooldown,
		logger:   logger,
	}
}

// TokenExpiring создаёт уведомление об истекающем токене аккаунта,
// если такого ещё не было за cooldown-окно.
// Возвращает true, если уведомление было создано (не подавлено).
func (s *Service) TokenExpiring(ctx context.Context, account *domain.SocialAccount, now time.Time) (bool, error) {
	exists, err := s.store.ExistsSince(ctx,
		account.UserID,
		domain.NotificationTokenExpiring,
		account.ID,
		now.Add(-s.cooldown),
	)
	if err != nil {
		return false, fmt.Errorf("check recent notification: %w", err)
	}

	if exists {
		telemetry.NotificationsSuppressed.WithLabelValues(string(domain.NotificationTokenExpiring)).Inc()
		s.logger.Debug("notification suppressed by cooldown",
			"account_id", account.ID,
			"platform", account.Platform,
		)
		return false, nil
	}

	n := domain.NewTokenExpiring(account, now)
	if err := s.store.Create(ctx, n); err != nil {
		return false, fmt.Errorf("create notification: %w", err)
	}

	telemetry.NotificationsCreated.WithLabelValues(string(domain.NotificationTokenExpiring)).Inc()
	s.logger.Info("token expiry notification sent",
		"account_id", account.ID,
		"user_id", account.UserID,
		"platform", account.Platform,
	)
	return true, nil
}
