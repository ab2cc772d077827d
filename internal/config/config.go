package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/shaiso/Postline/internal/ticker"
)

// Значения по умолчанию.
const (
	defaultPostCycleInterval  = time.Minute
	defaultTokenCycleInterval = time.Hour
	defaultRefreshWindow      = 24 * time.Hour
	defaultAlertWindow        = 72 * time.Hour
	defaultCooldown           = 24 * time.Hour
	defaultBatchSize          = 100
	defaultAPIPort            = "8080"
)

// Config — конфигурация сервиса. Заполняется из переменных окружения,
// .env файл подхватывается, если существует.
type Config struct {
	// DatabaseURL — DSN PostgreSQL. Обязателен.
	DatabaseURL string

	// RabbitURL — адрес RabbitMQ. Пустое значение — работа без брокера.
	RabbitURL string

	// APIPort — порт HTTP API.
	APIPort string

	// PostCycleInterval — период цикла планировщика постов.
	// PostCycleCron, если задан, имеет приоритет над интервалом.
	PostCycleInterval time.Duration
	PostCycleCron     string

	// TokenCycleInterval — период цикла обновления токенов.
	TokenCycleInterval time.Duration
	TokenCycleCron     string

	// TokenRefreshWindow — за сколько до истечения начинать обновление токена.
	TokenRefreshWindow time.Duration

	// TokenAlertWindow — за сколько до истечения предупреждать пользователя.
	TokenAlertWindow time.Duration

	// NotificationCooldown — окно дедупликации уведомлений.
	NotificationCooldown time.Duration

	// SchedulerBatchSize — максимум постов за один цикл планировщика.
	SchedulerBatchSize int
}

// Load читает конфигурацию из окружения.
func Load() (*Config, error) {
	// .env — только для локальной разработки, отсутствие не ошибка
	_ = godotenv.Load()

	cfg := &Config{
		DatabaseURL:   os.Getenv("DB_URL"),
		RabbitURL:     os.Getenv("RABBITMQ_URL"),
		APIPort:       getEnv("API_PORT", defaultAPIPort),
		PostCycleCron: os.Getenv("POST_CYCLE_CRON"),
		TokenCycleCron: os.Getenv("TOKEN_CYCLE_CRON"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}

	if cfg.PostCycleCron != "" {
		if err := ticker.ValidateCronExpr(cfg.PostCycleCron); err != nil {
			return nil, fmt.Errorf("POST_CYCLE_CRON: %w", err)
		}
	}
	if cfg.TokenCycleCron != "" {
		if err := ticker.ValidateCronExpr(cfg.TokenCycleCron); err != nil {
			return nil, fmt.Errorf("TOKEN_CYCLE_CRON: %w", err)
		}
	}

	var err error
	if cfg.PostCycleInterval, err = getDuration("POST_CYCLE_INTERVAL", defaultPostCycleInterval); err != nil {
		return nil, err
	}
	if cfg.TokenCycleInterval, err = getDuration("TOKEN_CYCLE_INTERVAL", defaultTokenCycleInterval); err != nil {
		return nil, err
	}
	if cfg.TokenRefreshWindow, err = getDuration("TOKEN_REFRESH_WINDOW", defaultRefreshWindow); err != nil {
		return nil, err
	}
	if cfg.TokenAlertWindow, err = getDuration("TOKEN_ALERT_WINDOW", defaultAlertWindow); err != nil {
		return nil, err
	}
	if cfg.NotificationCooldown, err = getDuration("NOTIFICATION_COOLDOWN", defaultCooldown); err != nil {
		return nil, err
	}
	if cfg.SchedulerBatchSize, err = getInt("SCHEDULER_BATCH_SIZE", defaultBatchSize); err != nil {
		return nil, err
	}

	if cfg.TokenAlertWindow < cfg.TokenRefreshWindow {
		return nil, fmt.Errorf("TOKEN_ALERT_WINDOW (%s) must not be shorter than TOKEN_REFRESH_WINDOW (%s)",
			cfg.TokenAlertWindow, cfg.TokenRefreshWindow)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}
