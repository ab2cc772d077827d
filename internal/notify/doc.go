// Package notify создаёт пользовательские уведомления с дедупликацией.
//
// Дедупликация best-effort: lookback-запрос по (user, type, reference)
// за cooldown-окно непосредственно перед созданием. Жёсткой гарантии
// через уникальный индекс нет — при часовой каденции и единственном
// писателе дубликат в один момент времени практически невозможен.
package notify
