package domain

import (
	"time"

	"github.com/google/uuid"
)

// SocialAccount — подключённый credential провайдера соцсети.
//
// Создаётся при успешном OAuth-подключении.
// Token Refresher — единственный, кто мутирует токен-поля и sync-поля
// в фоновых циклах. Отключение (IsRevoked/IsActive) — действие пользователя.
type SocialAccount struct {
	// ID — уникальный идентификатор аккаунта.
	ID uuid.UUID `json:"id"`

	// UserID — владелец аккаунта.
	UserID uuid.UUID `json:"user_id"`

	// Platform — идентификатор платформы ("twitter", "linkedin", ...).
	// Хранится в нижнем регистре.
	Platform string `json:"platform"`

	// AccessToken — текущий access token провайдера.
	AccessToken string `json:"-"`

	// RefreshToken — refresh token, если провайдер его выдаёт.
	RefreshToken string `json:"-"`

	// TokenExpiresAt — время истечения access token'а.
	// Nil, если провайдер не сообщает срок — такие аккаунты
	// никогда не попадают в выборки refresher'а.
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`

	// IsActive — аккаунт подключён и используется.
	IsActive bool `json:"is_active"`

	// IsRevoked — пользователь отозвал доступ.
	IsRevoked bool `json:"is_revoked"`

	// SyncStatus — статус последней синхронизации токена.
	SyncStatus SyncStatus `json:"sync_status"`

	// SyncError — текст ошибки последней синхронизации.
	SyncError string `json:"sync_error,omitempty"`

	// LastSyncAt — время последнего успешного обновления токена.
	LastSyncAt *time.Time `json:"last_sync_at,omitempty"`

	// CreatedAt — время подключения аккаунта.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// Refreshable возвращает true, если аккаунт вообще подлежит
// обновлению или алертам: активен, не отозван, срок токена известен.
func (a *SocialAccount) Refreshable() bool {
	return a.IsActive && !a.IsRevoked && a.TokenExpiresAt != nil
}

// ExpiresWithin проверяет, истекает ли токен в пределах window от now.
func (a *SocialAccount) ExpiresWithin(now time.Time, window time.Duration) bool {
	if !a.Refreshable() {
		return false
	}
	return !a.TokenExpiresAt.After(now.Add(window))
}

// TokenRefresh — новый токен-материал от провайдера.
// RefreshToken и ExpiresAt опциональны: провайдер может вернуть
// только новый access token.
type TokenRefresh struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// ApplyRefresh применяет успешный результат обновления токена.
// Пустые опциональные поля результата не затирают текущие значения.
func (a *SocialAccount) ApplyRefresh(res TokenRefresh, now time.Time) {
	a.AccessToken = res.AccessToken
	if res.RefreshToken != "" {
		a.RefreshToken = res.RefreshToken
	}
	if res.ExpiresAt != nil {
		a.TokenExpiresAt = res.ExpiresAt
	}
	a.SyncStatus = SyncStatusIdle
	a.SyncError = ""
	a.LastSyncAt = &now
	a.UpdatedAt = now
}

// MarkSyncFailed фиксирует неудачную попытку обновления.
// Токен-поля не трогаем: старый токен может ещё работать.
func (a *SocialAccount) MarkSyncFailed(reason string) {
	a.SyncStatus = SyncStatusFailed
	a.SyncError = reason
	a.UpdatedAt = time.Now()
}
