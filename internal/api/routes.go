package api

import (
	"net/http"
)

// RegisterRoutes регистрирует все маршруты API.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	// Middleware chain
	chain := Chain(
		Recovery(h.logger),
		Logging(h.logger),
	)

	// Posts
	mux.Handle("GET /api/v1/posts", chain(http.HandlerFunc(h.ListPosts)))
	mux.Handle("POST /api/v1/posts", chain(http.HandlerFunc(h.CreatePost)))
	mux.Handle("GET /api/v1/posts/{id}", chain(http.HandlerFunc(h.GetPost)))

	// Accounts
	mux.Handle("GET /api/v1/accounts", chain(http.HandlerFunc(h.ListAccounts)))
	mux.Handle("POST /api/v1/accounts", chain(http.HandlerFunc(h.ConnectAccount)))
	mux.Handle("POST /api/v1/accounts/{provider}/refresh", chain(http.HandlerFunc(h.RefreshAccount)))

	// Notifications
	mux.Handle("GET /api/v1/notifications", chain(http.HandlerFunc(h.ListNotifications)))
}
