package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

// --- PostStatus Tests ---

func TestPostStatus_IsTerminal(t *testing.T) {
	terminal := []PostStatus{PostStatusPublished, PostStatusFailed}
	for _, s := range terminal {
		if !s.IsTerminal() {
			t.Errorf("%s should be terminal", s)
		}
	}

	nonTerminal := []PostStatus{PostStatusDraft, PostStatusScheduled, PostStatusQueued, PostStatusPublishing}
	for _, s := range nonTerminal {
		if s.IsTerminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func TestPostStatus_CanQueue(t *testing.T) {
	if !PostStatusScheduled.CanQueue() {
		t.Error("scheduled should be queueable")
	}

	// queued and later must never go back through the scheduler
	for _, s := range []PostStatus{PostStatusDraft, PostStatusQueued, PostStatusPublishing, PostStatusPublished, PostStatusFailed} {
		if s.CanQueue() {
			t.Errorf("%s should not be queueable", s)
		}
	}
}

// --- Post Tests ---

func TestPost_IsDue(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name        string
		status      PostStatus
		scheduledAt *time.Time
		want        bool
	}{
		{"scheduled in the past", PostStatusScheduled, &past, true},
		{"scheduled exactly now", PostStatusScheduled, &now, true},
		{"scheduled in the future", PostStatusScheduled, &future, false},
		{"draft with past time", PostStatusDraft, &past, false},
		{"scheduled without time", PostStatusScheduled, nil, false},
		{"already queued", PostStatusQueued, &past, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &Post{Status: tt.status, ScheduledAt: tt.scheduledAt}
			if got := p.IsDue(now); got != tt.want {
				t.Errorf("IsDue() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPost_MarkQueued(t *testing.T) {
	p := &Post{ID: uuid.New(), Status: PostStatusScheduled}

	p.MarkQueued()

	if p.Status != PostStatusQueued {
		t.Errorf("expected queued, got %s", p.Status)
	}
	if p.UpdatedAt.IsZero() {
		t.Error("UpdatedAt should be set")
	}
}

func TestPost_MarkPublished(t *testing.T) {
	p := &Post{ID: uuid.New(), Status: PostStatusPublishing}

	p.MarkPublished()

	if p.Status != PostStatusPublished {
		t.Errorf("expected published, got %s", p.Status)
	}
	if p.PublishedAt == nil {
		t.Error("PublishedAt should be set")
	}
}

func TestPost_MarkFailed(t *testing.T) {
	p := &Post{ID: uuid.New(), Status: PostStatusPublishing}

	p.MarkFailed("rate limited")

	if p.Status != PostStatusFailed {
		t.Errorf("expected failed, got %s", p.Status)
	}
	if p.Error != "rate limited" {
		t.Errorf("unexpected error text: %s", p.Error)
	}
}

// --- SocialAccount Tests ---

func TestSocialAccount_Refreshable(t *testing.T) {
	expiry := time.Now().Add(time.Hour)

	tests := []struct {
		name    string
		account SocialAccount
		want    bool
	}{
		{"active with expiry", SocialAccount{IsActive: true, TokenExpiresAt: &expiry}, true},
		{"revoked", SocialAccount{IsActive: true, IsRevoked: true, TokenExpiresAt: &expiry}, false},
		{"inactive", SocialAccount{IsActive: false, TokenExpiresAt: &expiry}, false},
		{"no expiry", SocialAccount{IsActive: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.account.Refreshable(); got != tt.want {
				t.Errorf("Refreshable() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSocialAccount_ExpiresWithin(t *testing.T) {
	now := time.Now()

	in1h := now.Add(time.Hour)
	in80h := now.Add(80 * time.Hour)

	a := SocialAccount{IsActive: true, TokenExpiresAt: &in1h}
	if !a.ExpiresWithin(now, 72*time.Hour) {
		t.Error("expiry in 1h should be within 72h window")
	}

	b := SocialAccount{IsActive: true, TokenExpiresAt: &in80h}
	if b.ExpiresWithin(now, 72*time.Hour) {
		t.Error("expiry in 80h should not be within 72h window")
	}
}

func TestSocialAccount_ApplyRefresh(t *testing.T) {
	now := time.Now()
	oldExpiry := now.Add(2 * time.Hour)
	newExpiry := now.Add(30 * 24 * time.Hour)

	a := &SocialAccount{
		ID:             uuid.New(),
		AccessToken:    "old-access",
		RefreshToken:   "old-refresh",
		TokenExpiresAt: &oldExpiry,
		IsActive:       true,
		SyncStatus:     SyncStatusFailed,
		SyncError:      "previous failure",
	}

	a.ApplyRefresh(TokenRefresh{AccessToken: "new-access", ExpiresAt: &newExpiry}, now)

	if a.AccessToken != "new-access" {
		t.Errorf("access token not applied: %s", a.AccessToken)
	}
	// refresh token не был возвращён — старый должен сохраниться
	if a.RefreshToken != "old-refresh" {
		t.Errorf("refresh token should be preserved: %s", a.RefreshToken)
	}
	if !a.TokenExpiresAt.Equal(newExpiry) {
		t.Error("expiry should be updated")
	}
	if a.SyncStatus != SyncStatusIdle {
		t.Errorf("expected idle, got %s", a.SyncStatus)
	}
	if a.SyncError != "" {
		t.Errorf("sync error should be cleared, got %q", a.SyncError)
	}
	if a.LastSyncAt == nil || !a.LastSyncAt.Equal(now) {
		t.Error("LastSyncAt should be set to now")
	}
}

func TestSocialAccount_MarkSyncFailed(t *testing.T) {
	a := &SocialAccount{ID: uuid.New(), AccessToken: "still-valid", SyncStatus: SyncStatusIdle}

	a.MarkSyncFailed("no refresher configured for provider: twitter")

	if a.SyncStatus != SyncStatusFailed {
		t.Errorf("expected failed, got %s", a.SyncStatus)
	}
	if a.SyncError == "" {
		t.Error("sync error should be recorded")
	}
	if a.AccessToken != "still-valid" {
		t.Error("token fields must not be clobbered on failure")
	}
}

// --- Notification Tests ---

func TestNewTokenExpiring(t *testing.T) {
	now := time.Now()
	expiry := now.Add(48 * time.Hour)
	account := &SocialAccount{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Platform:       "twitter",
		TokenExpiresAt: &expiry,
	}

	n := NewTokenExpiring(account, now)

	if n.UserID != account.UserID {
		t.Error("notification should belong to the account owner")
	}
	if n.Type != NotificationTokenExpiring {
		t.Errorf("expected token_expiring, got %s", n.Type)
	}
	if n.ReferenceID != account.ID {
		t.Error("reference should point to the account")
	}
	if n.Data["platform"] != "twitter" {
		t.Errorf("payload should carry the platform, got %v", n.Data["platform"])
	}
	if n.Data["expires_at"] != expiry.UTC().Format(time.RFC3339) {
		t.Errorf("payload should carry the expiry, got %v", n.Data["expires_at"])
	}
}
