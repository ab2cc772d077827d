// Package scheduler реализует постановку due постов в очередь публикации.
//
// Scheduler периодически выбирает посты с истекшим scheduled_at
// и переводит их scheduled → queued guarded-обновлением,
// ровно один переход на пост за цикл.
//
// Использование:
//
//	sched := scheduler.New(scheduler.Config{
//	    Posts:     postRepo,
//	    Publisher: publisher, // опционально
//	    Logger:    logger,
//	})
//
//	// Вызывается каждый цикл (раз в минуту + сразу при старте)
//	queued, err := sched.Cycle(ctx, time.Now())
//
// Публикацию queued постов выполняет отдельный downstream pipeline,
// этот пакет только переводит "время пришло" в "работа поставлена".
package scheduler
