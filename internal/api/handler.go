package api

import (
	"log/slog"

	"github.com/shaiso/Postline/internal/refresher"
	"github.com/shaiso/Postline/internal/repo"
)

// Handler — главный обработчик API с зависимостями.
type Handler struct {
	postRepo         *repo.PostRepo
	accountRepo      *repo.AccountRepo
	notificationRepo *repo.NotificationRepo
	refresher        *refresher.Refresher
	logger           *slog.Logger
}

// Config — конфигурация для создания Handler.
type Config struct {
	PostRepo         *repo.PostRepo
	AccountRepo      *repo.AccountRepo
	NotificationRepo *repo.NotificationRepo
	Refresher        *refresher.Refresher
	Logger           *slog.Logger
}

// NewHandler создаёт новый Handler.
func NewHandler(cfg Config) *Handler {
	return &Handler{
		postRepo:         cfg.PostRepo,
		accountRepo:      cfg.AccountRepo,
		notificationRepo: cfg.NotificationRepo,
		refresher:        cfg.Refresher,
		logger:           cfg.Logger,
	}
}
