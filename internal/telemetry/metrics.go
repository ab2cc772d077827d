package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Метрики фоновых циклов. Экспортируются на /metrics endpoint.
var (
	// CycleRuns — количество выполненных циклов по подсистеме и исходу.
	// cycle: "post_scheduler" | "token_refresher"
	// status: "ok" | "error"
	CycleRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postline_cycle_runs_total",
		Help: "Background cycle executions by subsystem and outcome.",
	}, []string{"cycle", "status"})

	// PostsQueued — посты, успешно переведённые scheduled → queued.
	PostsQueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postline_posts_queued_total",
		Help: "Posts transitioned from scheduled to queued.",
	})

	// PostQueueFailures — изолированные пер-постовые ошибки в цикле.
	PostQueueFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "postline_post_queue_failures_total",
		Help: "Per-post transition failures inside a scheduler cycle.",
	})

	// TokenRefreshes — попытки обновления токена по результату.
	// result: "success" | "failed" | "no_capability"
	TokenRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postline_token_refreshes_total",
		Help: "Token refresh attempts by result.",
	}, []string{"result"})

	// NotificationsCreated — созданные уведомления по типу.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postline_notifications_created_total",
		Help: "User notifications created by type.",
	}, []string{"type"})

	// NotificationsSuppressed — уведомления, подавленные дедупликацией.
	NotificationsSuppressed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "postline_notifications_suppressed_total",
		Help: "Notifications suppressed by the cooldown window.",
	}, []string{"type"})
)
