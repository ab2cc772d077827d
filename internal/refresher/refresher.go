package refresher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
	"github.com/shaiso/Postline/internal/repo"
	"github.com/shaiso/Postline/internal/telemetry"
)

// Окна по умолчанию, отсчитываются от "сейчас".
const (
	// defaultRefreshWindow — за сколько до истечения начинать
	// активные попытки обновления.
	defaultRefreshWindow = 24 * time.Hour

	// defaultAlertWindow — за сколько до истечения предупреждать
	// пользователя, независимо от попыток обновления.
	defaultAlertWindow = 72 * time.Hour
)

// AccountStore — операции над аккаунтами, нужные refresher'у.
// Реализуется repo.AccountRepo. Not-found сигнализируется repo.ErrNotFound.
type AccountStore interface {
	ListExpiring(ctx context.Context, before time.Time) ([]domain.SocialAccount, error)
	GetByUserProvider(ctx context.Context, userID uuid.UUID, provider string) (*domain.SocialAccount, error)
	UpdateCredentials(ctx context.Context, a *domain.SocialAccount) error
}

// Notifier — выдача дедуплицированных уведомлений об истекающих токенах.
// Реализуется notify.Service.
type Notifier interface {
	TokenExpiring(ctx context.Context, account *domain.SocialAccount, now time.Time) (bool, error)
}

// EventPublisher — анонс деградировавших аккаунтов в RabbitMQ.
// Реализуется mq.Publisher. Nil — допустимое состояние.
type EventPublisher interface {
	PublishAccountDegraded(ctx context.Context, accountID uuid.UUID, platform, reason string) error
}

// Refresher проактивно поддерживает credentials валидными
// и деградирует с уведомлением пользователя, когда не может.
type Refresher struct {
	accounts  AccountStore
	registry  *Registry
	notifier  Notifier
	publisher EventPublisher
	logger    *slog.Logger

	refreshWindow time.Duration
	alertWindow   time.Duration
}

// Config — конфигурация Refresher.
type Config struct {
	Accounts  AccountStore
	Registry  *Registry // опционально; если nil — пустой NewRegistry()
	Notifier  Notifier
	Publisher EventPublisher // опционально
	Logger    *slog.Logger

	RefreshWindow time.Duration // default: 24h
	AlertWindow   time.Duration // default: 72h
}

// New создаёт новый Refresher.
func New(cfg Config) *Refresher {
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	refreshWindow := cfg.RefreshWindow
	if refreshWindow <= 0 {
		refreshWindow = defaultRefreshWindow
	}

	alertWindow := cfg.AlertWindow
	if alertWindow <= 0 {
		alertWindow = defaultAlertWindow
	}

	return &Refresher{
		accounts:      cfg.Accounts,
		registry:      registry,
		notifier:      cfg.Notifier,
		publisher:     cfg.Publisher,
		logger:        logger,
		refreshWindow: refreshWindow,
		alertWindow:   alertWindow,
	}
}

// Cycle выполняет один maintenance-цикл.
//
// 1. Выбирает аккаунты в refresh-окне и пытается обновить каждый.
// 2. Отдельно выбирает аккаунты в alert-окне и выдаёт уведомления
//    (дедупликация — внутри Notifier).
//
// Ошибка выборки прерывает цикл; ошибки отдельных аккаунтов изолированы.
// Только что обновлённый аккаунт естественно выпадает из следующей
// выборки: кандидаты пересчитываются каждым циклом заново.
func (r *Refresher) Cycle(ctx context.Context, now time.Time) error {
	candidates, err := r.accounts.ListExpiring(ctx, now.Add(r.refreshWindow))
	if err != nil {
		telemetry.CycleRuns.WithLabelValues("token_refresher", "error").Inc()
		return fmt.Errorf("list refresh candidates: %w", err)
	}

	var refreshed int
	for i := range candidates {
		if r.RefreshAccount(ctx, &candidates[i], now) {
			refreshed++
		}
	}

	alerted, err := r.sweepAlerts(ctx, now)
	if err != nil {
		telemetry.CycleRuns.WithLabelValues("token_refresher", "error").Inc()
		return err
	}

	telemetry.CycleRuns.WithLabelValues("token_refresher", "ok").Inc()
	r.logger.Info("token maintenance cycle completed",
		"refresh_candidates", len(candidates),
		"refreshed", refreshed,
		"alerts_sent", alerted,
	)
	return nil
}

// sweepAlerts уведомляет владельцев аккаунтов в alert-окне.
func (r *Refresher) sweepAlerts(ctx context.Context, now time.Time) (int, error) {
	candidates, err := r.accounts.ListExpiring(ctx, now.Add(r.alertWindow))
	if err != nil {
		return 0, fmt.Errorf("list alert candidates: %w", err)
	}

	var alerted int
	for i := range candidates {
		account := &candidates[i]

		created, err := r.notifier.TokenExpiring(ctx, account, now)
		if err != nil {
			r.logger.Error("failed to send expiry alert",
				"account_id", account.ID,
				"platform", account.Platform,
				"error", err,
			)
			continue
		}
		if created {
			alerted++
		}
	}
	return alerted, nil
}

// RefreshAccount пытается обновить credential одного аккаунта.
//
// Отсутствие capability — ожидаемый терминальный путь: аккаунт
// помечается failed, пользователь получает уведомление о необходимости
// переподключиться. Неудачный активный refresh тоже уведомляет
// (с дедупликацией) — молчаливая деградация до планового alert-sweep'а
// оставляла бы пользователя без сигнала почти сутки.
//
// Никогда не паникует и не возвращает ошибку: состояние failure
// фиксируется в аккаунте, ошибка его персистенса логируется и
// проглатывается (retry — следующий цикл).
func (r *Refresher) RefreshAccount(ctx context.Context, account *domain.SocialAccount, now time.Time) bool {
	logger := telemetry.WithAccountID(r.logger, account.ID.String()).With("platform", account.Platform)

	capability, ok := r.registry.Get(account.Platform)
	if !ok {
		reason := fmt.Sprintf("no refresher configured for provider: %s", account.Platform)
		telemetry.TokenRefreshes.WithLabelValues("no_capability").Inc()
		r.degrade(ctx, account, reason, now, logger)
		return false
	}

	result, err := capability.Refresh(ctx, account)
	if err != nil {
		telemetry.TokenRefreshes.WithLabelValues("failed").Inc()
		logger.Warn("token refresh failed", "error", err)
		r.degrade(ctx, account, err.Error(), now, logger)
		return false
	}

	if result == nil || result.AccessToken == "" {
		telemetry.TokenRefreshes.WithLabelValues("failed").Inc()
		r.degrade(ctx, account, "refresher returned no tokens", now, logger)
		return false
	}

	account.ApplyRefresh(*result, now)
	if err := r.accounts.UpdateCredentials(ctx, account); err != nil {
		logger.Error("failed to persist refreshed credentials", "error", err)
		return false
	}

	telemetry.TokenRefreshes.WithLabelValues("success").Inc()
	logger.Info("token refreshed", "expires_at", account.TokenExpiresAt)
	return true
}

// degrade фиксирует неудачу: failed sync-статус, уведомление
// (дедуплицированное), событие account.degraded.
func (r *Refresher) degrade(ctx context.Context, account *domain.SocialAccount, reason string, now time.Time, logger *slog.Logger) {
	account.MarkSyncFailed(reason)

	if err := r.accounts.UpdateCredentials(ctx, account); err != nil {
		// Проглатываем: retry в следующем цикле, выборка не изменится.
		logger.Error("failed to persist sync failure", "error", err)
	}

	if _, err := r.notifier.TokenExpiring(ctx, account, now); err != nil {
		logger.Error("failed to notify about degraded account", "error", err)
	}

	if r.publisher != nil {
		if err := r.publisher.PublishAccountDegraded(ctx, account.ID, account.Platform, reason); err != nil {
			logger.Warn("failed to publish account.degraded", "error", err)
		}
	}
}

// RefreshForUserProvider — синхронный ручной refresh одного аккаунта
// пользователя по платформе (регистронезависимо). Вызывается из
// request-handling слоя.
//
// Возвращает ErrAccountNotFound, если активного аккаунта для платформы
// нет — caller обязан отличать это от неудачного refresh'а.
func (r *Refresher) RefreshForUserProvider(ctx context.Context, userID uuid.UUID, provider string) (bool, error) {
	account, err := r.accounts.GetByUserProvider(ctx, userID, provider)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return false, ErrAccountNotFound
		}
		return false, fmt.Errorf("find account: %w", err)
	}

	return r.RefreshAccount(ctx, account, time.Now()), nil
}

// Run — адаптер под ticker.CycleFunc.
func (r *Refresher) Run(ctx context.Context) error {
	return r.Cycle(ctx, time.Now())
}
