package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
	"github.com/shaiso/Postline/internal/refresher"
)

// ListAccounts возвращает подключённые аккаунты пользователя.
// GET /api/v1/accounts?user_id=...
func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}

	accounts, err := h.accountRepo.ListByUser(r.Context(), userID)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}

	List(w, result, len(result))
}

// ConnectAccount подключает аккаунт соцсети.
// POST /api/v1/accounts
func (h *Handler) ConnectAccount(w http.ResponseWriter, r *http.Request) {
	var req ConnectAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.UserID == uuid.Nil {
		BadRequest(w, "user_id is required")
		return
	}
	if req.Platform == "" {
		BadRequest(w, "platform is required")
		return
	}
	if req.AccessToken == "" {
		BadRequest(w, "access_token is required")
		return
	}

	now := time.Now()
	account := &domain.SocialAccount{
		ID:             uuid.New(),
		UserID:         req.UserID,
		Platform:       strings.ToLower(req.Platform),
		AccessToken:    req.AccessToken,
		RefreshToken:   req.RefreshToken,
		TokenExpiresAt: req.TokenExpiresAt,
		IsActive:       true,
		SyncStatus:     domain.SyncStatusIdle,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := h.accountRepo.Create(r.Context(), account); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, AccountFromDomain(*account))
}

// RefreshAccount синхронно обновляет токен аккаунта пользователя.
// POST /api/v1/accounts/{provider}/refresh?user_id=...
func (h *Handler) RefreshAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}

	provider := r.PathValue("provider")
	if provider == "" {
		BadRequest(w, "provider is required")
		return
	}

	refreshed, err := h.refresher.RefreshForUserProvider(r.Context(), userID, provider)
	if err != nil {
		if errors.Is(err, refresher.ErrAccountNotFound) {
			NotFound(w, "no active account for provider "+provider)
			return
		}
		InternalError(w, h.logger, err)
		return
	}

	Success(w, RefreshResponse{Refreshed: refreshed})
}
