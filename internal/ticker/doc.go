// Package ticker реализует таймер фоновых циклов.
//
// Loop владеет своим жизненным циклом (stopped | running) и передаётся
// по ссылке всем, кому нужен start/stop контроль — глобального
// состояния таймеров в процессе нет.
//
// Использование:
//
//	loop, err := ticker.New(ticker.Config{
//	    Name:     "post_scheduler",
//	    Interval: time.Minute,
//	    Fn:       func(ctx context.Context) error { ... },
//	    Logger:   logger,
//	})
//	loop.Start(ctx) // первый цикл выполняется немедленно
//	defer loop.Stop()
package ticker
