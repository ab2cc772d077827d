// Package refresher проактивно обновляет credentials соцсетей.
//
// Два окна, оба отсчитываются от "сейчас":
//   - refresh window (24h) — активная попытка обновления через
//     платформо-специфичную Capability;
//   - alert window (72h) — пользовательское уведомление об истечении,
//     независимо от попыток обновления.
//
// Структура:
//   - refresher.go  — maintenance-цикл, RefreshAccount, ручной refresh
//   - capability.go — интерфейс Capability и Registry по платформам
//   - errors.go     — сентинельные ошибки
//
// Использование:
//
//	ref := refresher.New(refresher.Config{
//	    Accounts: accountRepo,
//	    Registry: registry,
//	    Notifier: notifySvc,
//	    Logger:   logger,
//	})
//
//	// Вызывается каждый цикл (раз в час + сразу при старте)
//	if err := ref.Cycle(ctx, time.Now()); err != nil {
//	    logger.Error("maintenance cycle failed", "error", err)
//	}
package refresher
