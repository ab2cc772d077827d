// Package api содержит HTTP API сервер.
//
// Структура:
//   - handler.go              — Handler с DI (репозитории, refresher, logger)
//   - routes.go               — регистрация маршрутов
//   - middleware.go           — middleware (logging, recovery)
//   - response.go             — унифицированные JSON-ответы и обработка ошибок
//   - dto.go                  — Data Transfer Objects (request/response)
//   - post_handler.go         — обработчики для /posts
//   - account_handler.go      — обработчики для /accounts, включая ручной refresh
//   - notification_handler.go — обработчики для /notifications
//
// Авторизации нет: получатель API — внутренний gateway, user_id приходит
// явным параметром.
package api
