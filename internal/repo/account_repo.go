package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shaiso/Postline/internal/domain"
)

// AccountRepo — репозиторий для работы с social accounts.
type AccountRepo struct {
	pool *pgxpool.Pool
}

// NewAccountRepo создаёт новый AccountRepo.
func NewAccountRepo(pool *pgxpool.Pool) *AccountRepo {
	return &AccountRepo{pool: pool}
}

const accountColumns = `id, user_id, platform, access_token, refresh_token,
       token_expires_at, is_active, is_revoked, sync_status, sync_error,
       last_sync_at, created_at, updated_at`

// Create создаёт новый account.
func (r *AccountRepo) Create(ctx context.Context, a *domain.SocialAccount) error {
	query := `
		INSERT INTO social_accounts (id, user_id, platform, access_token, refresh_token,
		                             token_expires_at, is_active, is_revoked, sync_status,
		                             sync_error, last_sync_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.pool.Exec(ctx, query,
		a.ID,
		a.UserID,
		a.Platform,
		a.AccessToken,
		nullString(a.RefreshToken),
		a.TokenExpiresAt,
		a.IsActive,
		a.IsRevoked,
		a.SyncStatus,
		nullString(a.SyncError),
		a.LastSyncAt,
		a.CreatedAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

// GetByID возвращает account по ID.
func (r *AccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SocialAccount, error) {
	query := `SELECT ` + accountColumns + ` FROM social_accounts WHERE id = $1`
	return scanAccount(r.pool.QueryRow(ctx, query, id))
}

// GetByUserProvider возвращает активный, не отозванный account пользователя
// по платформе. Сравнение платформы регистронезависимое.
func (r *AccountRepo) GetByUserProvider(ctx context.Context, userID uuid.UUID, provider string) (*domain.SocialAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM social_accounts
		WHERE user_id = $1
		  AND LOWER(platform) = LOWER($2)
		  AND is_active
		  AND NOT is_revoked
	`
	return scanAccount(r.pool.QueryRow(ctx, query, userID, provider))
}

// ListByUser возвращает аккаунты пользователя.
func (r *AccountRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.SocialAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM social_accounts
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// ListExpiring возвращает кандидатов на обновление/алерт:
// активные, не отозванные, с известным сроком токена, истекающим
// не позже before. Аккаунты без token_expires_at не выбираются никогда.
func (r *AccountRepo) ListExpiring(ctx context.Context, before time.Time) ([]domain.SocialAccount, error) {
	query := `
		SELECT ` + accountColumns + `
		FROM social_accounts
		WHERE is_active
		  AND NOT is_revoked
		  AND token_expires_at IS NOT NULL
		  AND token_expires_at <= $1
		ORDER BY token_expires_at ASC
	`
	rows, err := r.pool.Query(ctx, query, before)
	if err != nil {
		return nil, fmt.Errorf("list expiring accounts: %w", err)
	}
	defer rows.Close()
	return collectAccounts(rows)
}

// UpdateCredentials сохраняет токен-поля и sync-поля после цикла refresher'а.
// Update условный: применяется только к активному, не отозванному аккаунту,
// чтобы не затереть конкурентное отключение пользователем.
func (r *AccountRepo) UpdateCredentials(ctx context.Context, a *domain.SocialAccount) error {
	query := `
		UPDATE social_accounts
		SET access_token = $2, refresh_token = $3, token_expires_at = $4,
		    sync_status = $5, sync_error = $6, last_sync_at = $7, updated_at = $8
		WHERE id = $1 AND is_active AND NOT is_revoked
	`
	result, err := r.pool.Exec(ctx, query,
		a.ID,
		a.AccessToken,
		nullString(a.RefreshToken),
		a.TokenExpiresAt,
		a.SyncStatus,
		nullString(a.SyncError),
		a.LastSyncAt,
		a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update credentials: %w", err)
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Helpers ---

func scanAccount(row pgx.Row) (*domain.SocialAccount, error) {
	var a domain.SocialAccount
	var refreshToken, syncError *string

	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.Platform,
		&a.AccessToken,
		&refreshToken,
		&a.TokenExpiresAt,
		&a.IsActive,
		&a.IsRevoked,
		&a.SyncStatus,
		&syncError,
		&a.LastSyncAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan account: %w", err)
	}

	if refreshToken != nil {
		a.RefreshToken = *refreshToken
	}
	if syncError != nil {
		a.SyncError = *syncError
	}
	return &a, nil
}

func collectAccounts(rows pgx.Rows) ([]domain.SocialAccount, error) {
	var accounts []domain.SocialAccount
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, rows.Err()
}
