package refresher

import (
	"context"
	"strings"

	"github.com/shaiso/Postline/internal/domain"
)

// Capability — платформо-специфичное обновление credential'а.
//
// Реализация обращается к token endpoint провайдера и возвращает новый
// токен-материал. RefreshToken и ExpiresAt результата опциональны.
// Инфраструктурные и провайдерские ошибки возвращаются через error.
type Capability interface {
	Refresh(ctx context.Context, account *domain.SocialAccount) (*domain.TokenRefresh, error)
}

// Registry — реестр capabilities по идентификатору платформы.
//
// Отсутствие зарегистрированной capability — валидное, ожидаемое
// состояние (провайдерская интеграция ещё не написана), а не ошибка:
// такой аккаунт помечается failed и пользователь получает уведомление
// о необходимости переподключиться вручную.
type Registry struct {
	capabilities map[string]Capability
}

// NewRegistry создаёт пустой реестр.
// Capabilities регистрируются процессом по мере появления интеграций.
func NewRegistry() *Registry {
	return &Registry{capabilities: make(map[string]Capability)}
}

// Register добавляет capability для платформы.
// Идентификатор платформы нормализуется к нижнему регистру.
func (r *Registry) Register(platform string, c Capability) {
	r.capabilities[strings.ToLower(platform)] = c
}

// Get возвращает capability для платформы.
// Второе значение false — для платформы ничего не зарегистрировано.
func (r *Registry) Get(platform string) (Capability, bool) {
	c, ok := r.capabilities[strings.ToLower(platform)]
	return c, ok
}

// Platforms возвращает список платформ с зарегистрированной capability.
func (r *Registry) Platforms() []string {
	platforms := make([]string, 0, len(r.capabilities))
	for p := range r.capabilities {
		platforms = append(platforms, p)
	}
	return platforms
}
