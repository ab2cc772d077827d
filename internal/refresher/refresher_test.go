package refresher

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
	"github.com/shaiso/Postline/internal/repo"
)

// fakeAccountStore — in-memory хранилище аккаунтов.
// Воспроизводит семантику repo.AccountRepo: выборка по окну истечения,
// регистронезависимый поиск по платформе.
type fakeAccountStore struct {
	accounts  map[uuid.UUID]*domain.SocialAccount
	listErr   error
	updateErr error
}

func newFakeAccountStore(accounts ...*domain.SocialAccount) *fakeAccountStore {
	f := &fakeAccountStore{accounts: make(map[uuid.UUID]*domain.SocialAccount)}
	for _, a := range accounts {
		f.accounts[a.ID] = a
	}
	return f
}

func (f *fakeAccountStore) ListExpiring(_ context.Context, before time.Time) ([]domain.SocialAccount, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.SocialAccount
	for _, a := range f.accounts {
		if a.Refreshable() && !a.TokenExpiresAt.After(before) {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAccountStore) GetByUserProvider(_ context.Context, userID uuid.UUID, provider string) (*domain.SocialAccount, error) {
	for _, a := range f.accounts {
		if a.UserID == userID && strings.EqualFold(a.Platform, provider) && a.IsActive && !a.IsRevoked {
			copy := *a
			return &copy, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (f *fakeAccountStore) UpdateCredentials(_ context.Context, a *domain.SocialAccount) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	stored, ok := f.accounts[a.ID]
	if !ok {
		return repo.ErrNotFound
	}
	*stored = *a
	return nil
}

// fakeNotifier считает выданные уведомления, дедуплицируя по аккаунту.
type fakeNotifier struct {
	notified map[uuid.UUID]int
	err      error
}

func newFakeNotifier() *fakeNotifier {
	return &fakeNotifier{notified: make(map[uuid.UUID]int)}
}

func (f *fakeNotifier) TokenExpiring(_ context.Context, account *domain.SocialAccount, _ time.Time) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	f.notified[account.ID]++
	// дедупликация: только первый вызов создаёт уведомление
	return f.notified[account.ID] == 1, nil
}

// fakeCapability — управляемая capability.
type fakeCapability struct {
	result *domain.TokenRefresh
	err    error
	calls  int
}

func (f *fakeCapability) Refresh(_ context.Context, _ *domain.SocialAccount) (*domain.TokenRefresh, error) {
	f.calls++
	return f.result, f.err
}

func expiringAccount(platform string, expiresIn time.Duration) *domain.SocialAccount {
	expiry := time.Now().Add(expiresIn)
	return &domain.SocialAccount{
		ID:             uuid.New(),
		UserID:         uuid.New(),
		Platform:       platform,
		AccessToken:    "old-access",
		RefreshToken:   "old-refresh",
		TokenExpiresAt: &expiry,
		IsActive:       true,
		SyncStatus:     domain.SyncStatusIdle,
	}
}

// --- RefreshAccount Tests ---

func TestRefreshAccount_Success(t *testing.T) {
	now := time.Now()
	newExpiry := now.Add(30 * 24 * time.Hour)
	account := expiringAccount("twitter", 2*time.Hour)
	store := newFakeAccountStore(account)

	registry := NewRegistry()
	registry.Register("twitter", &fakeCapability{
		result: &domain.TokenRefresh{AccessToken: "new", ExpiresAt: &newExpiry},
	})

	ref := New(Config{Accounts: store, Registry: registry, Notifier: newFakeNotifier()})

	work := *account
	if !ref.RefreshAccount(context.Background(), &work, now) {
		t.Fatal("refresh should succeed")
	}

	stored := store.accounts[account.ID]
	if stored.AccessToken != "new" {
		t.Errorf("access token not persisted: %s", stored.AccessToken)
	}
	if stored.SyncStatus != domain.SyncStatusIdle {
		t.Errorf("expected idle, got %s", stored.SyncStatus)
	}
	if stored.SyncError != "" {
		t.Errorf("sync error should be cleared, got %q", stored.SyncError)
	}
	if stored.LastSyncAt == nil {
		t.Error("LastSyncAt should be set")
	}
}

func TestRefreshAccount_NoCapability(t *testing.T) {
	account := expiringAccount("mastodon", 2*time.Hour)
	store := newFakeAccountStore(account)
	notifier := newFakeNotifier()

	ref := New(Config{Accounts: store, Notifier: notifier})

	work := *account
	if ref.RefreshAccount(context.Background(), &work, time.Now()) {
		t.Fatal("refresh without capability should report failure")
	}

	stored := store.accounts[account.ID]
	if stored.SyncStatus != domain.SyncStatusFailed {
		t.Errorf("expected failed, got %s", stored.SyncStatus)
	}
	if stored.SyncError == "" {
		t.Error("sync error should name the missing refresher")
	}
	if notifier.notified[account.ID] != 1 {
		t.Errorf("expected exactly one notification, got %d", notifier.notified[account.ID])
	}
}

func TestRefreshAccount_CapabilityError(t *testing.T) {
	account := expiringAccount("twitter", 2*time.Hour)
	store := newFakeAccountStore(account)
	notifier := newFakeNotifier()

	registry := NewRegistry()
	registry.Register("twitter", &fakeCapability{err: errors.New("provider rejected refresh token")})

	ref := New(Config{Accounts: store, Registry: registry, Notifier: notifier})

	work := *account
	if ref.RefreshAccount(context.Background(), &work, time.Now()) {
		t.Fatal("refresh should report failure")
	}

	stored := store.accounts[account.ID]
	if stored.SyncStatus != domain.SyncStatusFailed {
		t.Errorf("expected failed, got %s", stored.SyncStatus)
	}
	if stored.SyncError != "provider rejected refresh token" {
		t.Errorf("error detail should be preserved, got %q", stored.SyncError)
	}
	// старый токен может ещё работать — не затираем
	if stored.AccessToken != "old-access" {
		t.Error("token fields must survive a failed refresh")
	}
	if notifier.notified[account.ID] != 1 {
		t.Error("failed active refresh should notify the user")
	}
}

func TestRefreshAccount_EmptyResult(t *testing.T) {
	account := expiringAccount("twitter", 2*time.Hour)
	store := newFakeAccountStore(account)

	registry := NewRegistry()
	registry.Register("twitter", &fakeCapability{result: &domain.TokenRefresh{}})

	ref := New(Config{Accounts: store, Registry: registry, Notifier: newFakeNotifier()})

	work := *account
	if ref.RefreshAccount(context.Background(), &work, time.Now()) {
		t.Fatal("result without access token should report failure")
	}
	if store.accounts[account.ID].SyncStatus != domain.SyncStatusFailed {
		t.Error("account should be marked failed")
	}
}

func TestRefreshAccount_PersistFailureIsSwallowed(t *testing.T) {
	account := expiringAccount("mastodon", 2*time.Hour)
	store := newFakeAccountStore(account)
	store.updateErr = errors.New("db down")

	ref := New(Config{Accounts: store, Notifier: newFakeNotifier()})

	// не должно паниковать и не должно вернуть ошибку наружу
	work := *account
	if ref.RefreshAccount(context.Background(), &work, time.Now()) {
		t.Fatal("refresh should report failure")
	}
}

// --- Cycle Tests ---

func TestCycle_RefreshesCandidatesInWindow(t *testing.T) {
	now := time.Now()
	newExpiry := now.Add(30 * 24 * time.Hour)

	inWindow := expiringAccount("twitter", 2*time.Hour)
	outOfWindow := expiringAccount("twitter", 80*time.Hour)
	store := newFakeAccountStore(inWindow, outOfWindow)

	capability := &fakeCapability{result: &domain.TokenRefresh{AccessToken: "new", ExpiresAt: &newExpiry}}
	registry := NewRegistry()
	registry.Register("twitter", capability)

	ref := New(Config{Accounts: store, Registry: registry, Notifier: newFakeNotifier()})

	if err := ref.Cycle(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if capability.calls != 1 {
		t.Errorf("only the in-window account should be refreshed, got %d calls", capability.calls)
	}
	if store.accounts[inWindow.ID].AccessToken != "new" {
		t.Error("in-window account should be refreshed")
	}
	if store.accounts[outOfWindow.ID].AccessToken != "old-access" {
		t.Error("out-of-window account must not be touched")
	}
}

func TestCycle_RefreshedAccountDropsOutOfNextCycle(t *testing.T) {
	now := time.Now()
	newExpiry := now.Add(30 * 24 * time.Hour)
	account := expiringAccount("twitter", 2*time.Hour)
	store := newFakeAccountStore(account)

	capability := &fakeCapability{result: &domain.TokenRefresh{AccessToken: "new", ExpiresAt: &newExpiry}}
	registry := NewRegistry()
	registry.Register("twitter", capability)

	ref := New(Config{Accounts: store, Registry: registry, Notifier: newFakeNotifier()})

	if err := ref.Cycle(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ref.Cycle(context.Background(), now.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// новый срок токена за пределами окна — второй цикл не трогает аккаунт
	if capability.calls != 1 {
		t.Errorf("refreshed account should drop out of the candidate set, got %d calls", capability.calls)
	}
}

func TestCycle_AlertWindowSelection(t *testing.T) {
	now := time.Now()

	// истекает через 1h — в обоих окнах; через 80h — ни в одном (alert 72h)
	soon := expiringAccount("mastodon", time.Hour)
	later := expiringAccount("mastodon", 80*time.Hour)
	store := newFakeAccountStore(soon, later)
	notifier := newFakeNotifier()

	ref := New(Config{Accounts: store, Notifier: notifier})

	if err := ref.Cycle(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if notifier.notified[soon.ID] == 0 {
		t.Error("account expiring in 1h should be alerted")
	}
	if notifier.notified[later.ID] != 0 {
		t.Error("account expiring in 80h is outside the 72h alert window")
	}
}

func TestCycle_SecondCycleDoesNotDuplicateAlerts(t *testing.T) {
	now := time.Now()
	account := expiringAccount("mastodon", 48*time.Hour)
	store := newFakeAccountStore(account)
	notifier := newFakeNotifier()

	ref := New(Config{Accounts: store, Notifier: notifier})

	if err := ref.Cycle(context.Background(), now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ref.Cycle(context.Background(), now.Add(time.Hour)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Notifier дедуплицирует; refresher лишь обязан переспрашивать его,
	// а не слать уведомления сам.
	total := 0
	for range notifier.notified {
		total++
	}
	if total != 1 {
		t.Errorf("expected alerts for exactly 1 account, got %d", total)
	}
}

func TestCycle_SelectionFailureAborts(t *testing.T) {
	store := newFakeAccountStore()
	store.listErr = errors.New("db unreachable")

	ref := New(Config{Accounts: store, Notifier: newFakeNotifier()})

	if err := ref.Cycle(context.Background(), time.Now()); err == nil {
		t.Fatal("selection failure should abort the cycle")
	}
}

// --- RefreshForUserProvider Tests ---

func TestRefreshForUserProvider_CaseInsensitive(t *testing.T) {
	now := time.Now()
	newExpiry := now.Add(30 * 24 * time.Hour)
	account := expiringAccount("twitter", 2*time.Hour)
	store := newFakeAccountStore(account)

	registry := NewRegistry()
	registry.Register("twitter", &fakeCapability{
		result: &domain.TokenRefresh{AccessToken: "new", ExpiresAt: &newExpiry},
	})

	ref := New(Config{Accounts: store, Registry: registry, Notifier: newFakeNotifier()})

	ok, err := ref.RefreshForUserProvider(context.Background(), account.UserID, "TWITTER")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Error("refresh should succeed for case-insensitive platform match")
	}
}

func TestRefreshForUserProvider_NotFound(t *testing.T) {
	store := newFakeAccountStore()
	ref := New(Config{Accounts: store, Notifier: newFakeNotifier()})

	_, err := ref.RefreshForUserProvider(context.Background(), uuid.New(), "twitter")
	if !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}

func TestRefreshForUserProvider_FailureIsNotNotFound(t *testing.T) {
	account := expiringAccount("mastodon", 2*time.Hour)
	store := newFakeAccountStore(account)
	ref := New(Config{Accounts: store, Notifier: newFakeNotifier()})

	ok, err := ref.RefreshForUserProvider(context.Background(), account.UserID, "mastodon")
	if err != nil {
		t.Fatalf("refresh failure must not surface as an error: %v", err)
	}
	if ok {
		t.Error("refresh without capability should report failure")
	}
}

// --- Registry Tests ---

func TestRegistry_CaseInsensitiveLookup(t *testing.T) {
	registry := NewRegistry()
	capability := &fakeCapability{}
	registry.Register("Twitter", capability)

	if _, ok := registry.Get("twitter"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := registry.Get("TWITTER"); !ok {
		t.Error("lookup should be case-insensitive")
	}
	if _, ok := registry.Get("linkedin"); ok {
		t.Error("unregistered platform should not resolve")
	}
}
