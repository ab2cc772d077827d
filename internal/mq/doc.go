// Package mq реализует работу с RabbitMQ: соединение с автоматическим
// reconnect, декларацию топологии и публикацию событий.
//
// Топология:
//
//	postline.posts (direct)
//	└── posts.queued — посты, переведённые планировщиком в очередь публикации
//
//	postline.accounts (direct)
//	└── accounts.degraded — аккаунты, оставшиеся без рабочего токена
//
// Брокер опционален: при недоступном RabbitMQ сервис продолжает работать,
// события просто не публикуются.
package mq
