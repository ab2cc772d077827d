package api

import (
	"net/http"
)

// ListNotifications возвращает уведомления пользователя, новые первыми.
// GET /api/v1/notifications?user_id=...&limit=...&offset=...
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}

	limit, offset := queryPagination(r)

	notifications, err := h.notificationRepo.ListByUser(r.Context(), userID, limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		result[i] = NotificationFromDomain(n)
	}

	List(w, result, len(result))
}
