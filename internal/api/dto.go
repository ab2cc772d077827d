package api

import (
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
)

// Post DTOs

// CreatePostRequest — запрос на создание поста.
type CreatePostRequest struct {
	UserID      uuid.UUID  `json:"user_id"`
	Content     string     `json:"content"`
	Platforms   []string   `json:"platforms"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
}

// PostResponse — ответ с постом.
type PostResponse struct {
	ID          uuid.UUID  `json:"id"`
	UserID      uuid.UUID  `json:"user_id"`
	Content     string     `json:"content"`
	Platforms   []string   `json:"platforms"`
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`
	Status      string     `json:"status"`
	Error       string     `json:"error,omitempty"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// PostFromDomain конвертирует domain.Post в PostResponse.
func PostFromDomain(p domain.Post) PostResponse {
	return PostResponse{
		ID:          p.ID,
		UserID:      p.UserID,
		Content:     p.Content,
		Platforms:   p.Platforms,
		ScheduledAt: p.ScheduledAt,
		Status:      string(p.Status),
		Error:       p.Error,
		PublishedAt: p.PublishedAt,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// Account DTOs

// ConnectAccountRequest — запрос на подключение аккаунта.
// Токены приходят из OAuth callback'а фронтенда.
type ConnectAccountRequest struct {
	UserID         uuid.UUID  `json:"user_id"`
	Platform       string     `json:"platform"`
	AccessToken    string     `json:"access_token"`
	RefreshToken   string     `json:"refresh_token,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
}

// AccountResponse — ответ с аккаунтом. Токены наружу не отдаём.
type AccountResponse struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	Platform       string     `json:"platform"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsRevoked      bool       `json:"is_revoked"`
	SyncStatus     string     `json:"sync_status"`
	SyncError      string     `json:"sync_error,omitempty"`
	LastSyncAt     *time.Time `json:"last_sync_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// AccountFromDomain конвертирует domain.SocialAccount в AccountResponse.
func AccountFromDomain(a domain.SocialAccount) AccountResponse {
	return AccountResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		Platform:       a.Platform,
		TokenExpiresAt: a.TokenExpiresAt,
		IsActive:       a.IsActive,
		IsRevoked:      a.IsRevoked,
		SyncStatus:     string(a.SyncStatus),
		SyncError:      a.SyncError,
		LastSyncAt:     a.LastSyncAt,
		CreatedAt:      a.CreatedAt,
	}
}

// RefreshResponse — результат ручного обновления токена.
type RefreshResponse struct {
	Refreshed bool `json:"refreshed"`
}

// Notification DTOs

// NotificationResponse — ответ с уведомлением.
type NotificationResponse struct {
	ID          uuid.UUID      `json:"id"`
	UserID      uuid.UUID      `json:"user_id"`
	Type        string         `json:"type"`
	ReferenceID uuid.UUID      `json:"reference_id"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
}

// NotificationFromDomain конвертирует domain.Notification в NotificationResponse.
func NotificationFromDomain(n domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		UserID:      n.UserID,
		Type:        string(n.Type),
		ReferenceID: n.ReferenceID,
		Data:        n.Data,
		CreatedAt:   n.CreatedAt,
	}
}
