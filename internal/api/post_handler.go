package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/shaiso/Postline/internal/domain"
)

// ListPosts возвращает посты пользователя.
// GET /api/v1/posts?user_id=...&status=...&limit=...&offset=...
func (h *Handler) ListPosts(w http.ResponseWriter, r *http.Request) {
	userID, ok := queryUserID(w, r)
	if !ok {
		return
	}

	var status *domain.PostStatus
	if s := r.URL.Query().Get("status"); s != "" {
		st := domain.PostStatus(s)
		if !st.Valid() {
			BadRequest(w, "unknown status: "+s)
			return
		}
		status = &st
	}

	limit, offset := queryPagination(r)

	posts, err := h.postRepo.ListByUser(r.Context(), userID, status, limit, offset)
	if HandleRepoError(w, h.logger, err, "") {
		return
	}

	result := make([]PostResponse, len(posts))
	for i, p := range posts {
		result[i] = PostFromDomain(p)
	}

	List(w, result, len(result))
}

// CreatePost создаёт новый пост.
// POST /api/v1/posts
func (h *Handler) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		BadRequest(w, "invalid request body")
		return
	}

	if req.UserID == uuid.Nil {
		BadRequest(w, "user_id is required")
		return
	}
	if req.Content == "" {
		BadRequest(w, "content is required")
		return
	}
	if len(req.Platforms) == 0 {
		BadRequest(w, "at least one platform is required")
		return
	}

	now := time.Now()
	post := &domain.Post{
		ID:          uuid.New(),
		UserID:      req.UserID,
		Content:     req.Content,
		Platforms:   req.Platforms,
		ScheduledAt: req.ScheduledAt,
		Status:      domain.PostStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	// пост со временем публикации сразу попадает под планировщик
	if req.ScheduledAt != nil {
		post.Status = domain.PostStatusScheduled
	}

	if err := h.postRepo.Create(r.Context(), post); err != nil {
		InternalError(w, h.logger, err)
		return
	}

	Created(w, PostFromDomain(*post))
}

// GetPost возвращает пост по ID.
// GET /api/v1/posts/{id}
func (h *Handler) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		BadRequest(w, "invalid post id")
		return
	}

	post, err := h.postRepo.GetByID(r.Context(), id)
	if HandleRepoError(w, h.logger, err, "post not found") {
		return
	}

	Success(w, PostFromDomain(*post))
}

// queryUserID извлекает обязательный user_id из query string.
func queryUserID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.URL.Query().Get("user_id")
	if raw == "" {
		BadRequest(w, "user_id is required")
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		BadRequest(w, "invalid user_id")
		return uuid.Nil, false
	}
	return id, true
}

// queryPagination извлекает limit/offset с разумными пределами.
func queryPagination(r *http.Request) (limit, offset int) {
	limit = 50
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 && v <= 200 {
		limit = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
