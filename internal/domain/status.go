package domain

// PostStatus — статус публикации поста.
//
// Жизненный цикл:
//
//	draft → scheduled → queued → publishing → published
//	                                        ↘ failed
//
// Переход scheduled → queued выполняет Post Scheduler.
// Дальнейшие переходы (queued → publishing → published/failed)
// делает downstream publishing pipeline.
type PostStatus string

const (
	// PostStatusDraft — черновик, не участвует в планировании.
	PostStatusDraft PostStatus = "draft"

	// PostStatusScheduled — пост запланирован, ждёт своего времени.
	PostStatusScheduled PostStatus = "scheduled"

	// PostStatusQueued — время пришло, пост поставлен в очередь публикации.
	PostStatusQueued PostStatus = "queued"

	// PostStatusPublishing — publishing pipeline выполняет публикацию.
	PostStatusPublishing PostStatus = "publishing"

	// PostStatusPublished — успешно опубликован.
	PostStatusPublished PostStatus = "published"

	// PostStatusFailed — публикация завершилась ошибкой.
	PostStatusFailed PostStatus = "failed"
)

// Valid возвращает true для известного статуса.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusScheduled, PostStatusQueued,
		PostStatusPublishing, PostStatusPublished, PostStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal возвращает true, если статус финальный.
func (s PostStatus) IsTerminal() bool {
	switch s {
	case PostStatusPublished, PostStatusFailed:
		return true
	default:
		return false
	}
}

// CanQueue возвращает true, если из этого статуса допустим переход в queued.
// Пост из queued и дальше никогда не возвращается в scheduled автоматически.
func (s PostStatus) CanQueue() bool {
	return s == PostStatusScheduled
}

// SyncStatus — статус синхронизации credential'а соцсети.
//
// Жизненный цикл:
//
//	idle → refreshing → idle
//	                  ↘ failed (до следующей успешной попытки)
type SyncStatus string

const (
	// SyncStatusIdle — credential в порядке, активной синхронизации нет.
	SyncStatusIdle SyncStatus = "idle"

	// SyncStatusRefreshing — идёт обновление токена.
	SyncStatusRefreshing SyncStatus = "refreshing"

	// SyncStatusFailed — последняя попытка обновления не удалась.
	SyncStatusFailed SyncStatus = "failed"
)

// NotificationType — тип пользовательского уведомления.
type NotificationType string

const (
	// NotificationTokenExpiring — токен аккаунта скоро истечёт,
	// требуется ручное переподключение.
	NotificationTokenExpiring NotificationType = "token_expiring"
)
