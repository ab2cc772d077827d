package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post — единица контента для одной или нескольких платформ.
//
// Post создаётся пользователем через API.
// Scheduler переводит его в queued, когда наступает ScheduledAt.
// Дальше постом владеет publishing pipeline.
type Post struct {
	// ID — уникальный идентификатор поста.
	ID uuid.UUID `json:"id"`

	// UserID — владелец поста.
	UserID uuid.UUID `json:"user_id"`

	// Content — текст публикации.
	Content string `json:"content"`

	// Platforms — целевые платформы ("twitter", "linkedin", ...).
	Platforms []string `json:"platforms"`

	// ScheduledAt — время публикации.
	// Nil для черновиков: такие посты scheduler не трогает.
	ScheduledAt *time.Time `json:"scheduled_at,omitempty"`

	// Status — текущий статус поста.
	Status PostStatus `json:"status"`

	// Error — текст ошибки публикации (для status=failed).
	Error string `json:"error,omitempty"`

	// PublishedAt — фактическое время публикации.
	PublishedAt *time.Time `json:"published_at,omitempty"`

	// CreatedAt — время создания поста.
	CreatedAt time.Time `json:"created_at"`

	// UpdatedAt — время последнего обновления.
	UpdatedAt time.Time `json:"updated_at"`
}

// IsDue проверяет, пора ли ставить пост в очередь.
// Только scheduled посты с прошедшим ScheduledAt считаются due.
func (p *Post) IsDue(now time.Time) bool {
	if p.Status != PostStatusScheduled {
		return false
	}
	if p.ScheduledAt == nil {
		return false
	}
	return !p.ScheduledAt.After(now)
}

// MarkQueued переводит пост в статус queued.
func (p *Post) MarkQueued() {
	p.Status = PostStatusQueued
	p.UpdatedAt = time.Now()
}

// MarkPublishing переводит пост в статус publishing.
func (p *Post) MarkPublishing() {
	p.Status = PostStatusPublishing
	p.UpdatedAt = time.Now()
}

// MarkPublished переводит пост в статус published.
func (p *Post) MarkPublished() {
	now := time.Now()
	p.Status = PostStatusPublished
	p.PublishedAt = &now
	p.UpdatedAt = now
}

// MarkFailed переводит пост в статус failed с текстом ошибки.
func (p *Post) MarkFailed(err string) {
	p.Status = PostStatusFailed
	p.Error = err
	p.UpdatedAt = time.Now()
}
