package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema — DDL таблиц, которые читает/пишет этот сервис.
// Посты и аккаунты разделяются с остальным приложением,
// здесь описаны только нужные оркестратору поля.
const schema = `
CREATE TABLE IF NOT EXISTS posts (
	id            UUID PRIMARY KEY,
	user_id       UUID NOT NULL,
	content       TEXT NOT NULL DEFAULT '',
	platforms     TEXT[] NOT NULL DEFAULT '{}',
	scheduled_at  TIMESTAMPTZ,
	status        TEXT NOT NULL DEFAULT 'draft',
	error         TEXT,
	published_at  TIMESTAMPTZ,
	created_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at    TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_posts_due
	ON posts (scheduled_at) WHERE status = 'scheduled';

CREATE TABLE IF NOT EXISTS social_accounts (
	id               UUID PRIMARY KEY,
	user_id          UUID NOT NULL,
	platform         TEXT NOT NULL,
	access_token     TEXT NOT NULL DEFAULT '',
	refresh_token    TEXT,
	token_expires_at TIMESTAMPTZ,
	is_active        BOOLEAN NOT NULL DEFAULT TRUE,
	is_revoked       BOOLEAN NOT NULL DEFAULT FALSE,
	sync_status      TEXT NOT NULL DEFAULT 'idle',
	sync_error       TEXT,
	last_sync_at     TIMESTAMPTZ,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_social_accounts_expiry
	ON social_accounts (token_expires_at)
	WHERE is_active AND NOT is_revoked AND token_expires_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS notifications (
	id           UUID PRIMARY KEY,
	user_id      UUID NOT NULL,
	type         TEXT NOT NULL,
	reference_id UUID NOT NULL,
	data         JSONB,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_notifications_dedup
	ON notifications (user_id, type, reference_id, created_at);
`

// EnsureSchema создаёт таблицы, если их ещё нет.
// Вызывается при старте процесса.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
