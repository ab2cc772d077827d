package domain

import (
	"time"

	"github.com/google/uuid"
)

// Notification — пользовательское уведомление.
//
// Создаётся исключительно оркестратором от имени пользователя,
// читается UI (список алертов). Дедупликация: для тройки
// (UserID, Type, ReferenceID) — не чаще одного уведомления
// за cooldown-окно (см. internal/notify).
type Notification struct {
	// ID — уникальный идентификатор уведомления.
	ID uuid.UUID `json:"id"`

	// UserID — получатель уведомления.
	UserID uuid.UUID `json:"user_id"`

	// Type — тип уведомления.
	Type NotificationType `json:"type"`

	// ReferenceID — сущность, о которой уведомление
	// (для token_expiring — ID аккаунта).
	ReferenceID uuid.UUID `json:"reference_id"`

	// Data — произвольный payload для UI.
	Data map[string]any `json:"data,omitempty"`

	// CreatedAt — время создания.
	CreatedAt time.Time `json:"created_at"`
}

// NewTokenExpiring создаёт уведомление об истекающем токене аккаунта.
func NewTokenExpiring(account *SocialAccount, now time.Time) *Notification {
	data := map[string]any{
		"platform": account.Platform,
	}
	if account.TokenExpiresAt != nil {
		data["expires_at"] = account.TokenExpiresAt.UTC().Format(time.RFC3339)
	}

	return &Notification{
		ID:          uuid.New(),
		UserID:      account.UserID,
		Type:        NotificationTokenExpiring,
		ReferenceID: account.ID,
		Data:        data,
		CreatedAt:   now,
	}
}
