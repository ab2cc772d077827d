// Package cli реализует инструмент командной строки Postline.
//
// # Обзор
//
// CLI — клиентская утилита для взаимодействия с Postline API.
// Работает через HTTP, не импортирует внутренние пакеты системы.
// CLI используется для управления постами, аккаунтами и просмотра
// уведомлений.
//
// # Ключевые компоненты
//
// ## Client
//
// HTTP-клиент для Postline API. Инкапсулирует все HTTP-запросы,
// парсинг ответов (DataResponse, ListResponse, ErrorResponse)
// и обработку ошибок.
//
//	client := cli.NewClient("http://localhost:8080")
//	posts, err := client.ListPosts(cli.ListPostsOpts{UserID: id})
//
// ## Output
//
// Форматирование вывода. Поддерживает два режима:
//   - Таблицы (text/tabwriter) — по умолчанию
//   - JSON (json.MarshalIndent) — с флагом --json
//
// Данные выводятся в stdout, сообщения (Success/Error) — в stderr.
// Это позволяет использовать pipe: postline post list --json | jq .
//
// ## Commands
//
// Cobra-команды организованы по ресурсам:
//   - post: list, create, show
//   - account: list, connect, refresh
//   - notification: list
//
// Каждая группа создаётся через фабричную функцию (NewPostCmd и т.д.),
// принимающую clientFn и outputFn — замыкания для ленивого создания
// Client и Output после парсинга PersistentFlags.
package cli
