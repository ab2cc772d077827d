package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
)

// fakeStore — in-memory хранилище уведомлений.
type fakeStore struct {
	notifications []*domain.Notification
	createErr     error
	existsErr     error
}

func (f *fakeStore) Create(_ context.Context, n *domain.Notification) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeStore) ExistsSince(_ context.Context, userID uuid.UUID, typ domain.NotificationType, referenceID uuid.UUID, since time.Time) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, n := range f.notifications {
		if n.UserID == userID && n.Type == typ && n.ReferenceID == referenceID && !n.CreatedAt.Before(since) {
			return true, nil
		}
	}
	return false, nil
}

func testAccount() *domain.SocialAccount {
	expiry := time.Now().Add(48 * time.Hour)
	return &domain.SocialAccount{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Platform:       "twitter",
		TokenExpiresAt: &expiry,
		IsActive:       true,
	}
}

func TestTokenExpiring_CreatesNotification(t *testing.T) {
	store := &fakeStore{}
	svc := New(Config{Store: store})

	created, err := svc.TokenExpiring(context.Background(), testAccount(), time.Now())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("notification should be created")
	}
	if len(store.notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(store.notifications))
	}
	if store.notifications[0].Type != domain.NotificationTokenExpiring {
		t.Errorf("unexpected type: %s", store.notifications[0].Type)
	}
}

func TestTokenExpiring_SuppressedWithinCooldown(t *testing.T) {
	store := &fakeStore{}
	svc := New(Config{Store: store})
	account := testAccount()
	now := time.Now()

	if _, err := svc.TokenExpiring(context.Background(), account, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// второй цикл через час — в пределах 24h окна
	created, err := svc.TokenExpiring(context.Background(), account, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("second notification within cooldown should be suppressed")
	}
	if len(store.notifications) != 1 {
		t.Errorf("expected 1 notification, got %d", len(store.notifications))
	}
}

func TestTokenExpiring_CreatedAgainAfterCooldown(t *testing.T) {
	store := &fakeStore{}
	svc := New(Config{Store: store})
	account := testAccount()
	now := time.Now()

	if _, err := svc.TokenExpiring(context.Background(), account, now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	created, err := svc.TokenExpiring(context.Background(), account, now.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("notification after cooldown expiry should be created")
	}
	if len(store.notifications) != 2 {
		t.Errorf("expected 2 notifications, got %d", len(store.notifications))
	}
}

func TestTokenExpiring_DistinctAccountsNotDeduplicated(t *testing.T) {
	store := &fakeStore{}
	svc := New(Config{Store: store})
	now := time.Now()

	if _, err := svc.TokenExpiring(context.Background(), testAccount(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	created, err := svc.TokenExpiring(context.Background(), testAccount(), now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("different reference should not be deduplicated")
	}
}

func TestTokenExpiring_LookbackErrorPropagates(t *testing.T) {
	store := &fakeStore{existsErr: errors.New("db down")}
	svc := New(Config{Store: store})

	_, err := svc.TokenExpiring(context.Background(), testAccount(), time.Now())
	if err == nil {
		t.Fatal("expected error from lookback failure")
	}
	if len(store.notifications) != 0 {
		t.Error("no notification should be created when lookback fails")
	}
}
