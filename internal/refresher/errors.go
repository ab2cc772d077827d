package refresher

import "errors"

// Ошибки refresher'а.
var (
	// ErrAccountNotFound — у пользователя нет активного аккаунта
	// для запрошенной платформы. Отличается от неудачного refresh'а:
	// caller'у нужно вернуть 404, а не 502.
	ErrAccountNotFound = errors.New("social account not found")
)
