package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// --- Response types (дублируются из api/dto.go, CLI не импортирует internal/api) ---

// PostResponse — пост из API.
type PostResponse struct {
	ID          string   `json:"id"`
	UserID      string   `json:"user_id"`
	Content     string   `json:"content"`
	Platforms   []string `json:"platforms"`
	ScheduledAt string   `json:"scheduled_at,omitempty"`
	Status      string   `json:"status"`
	Error       string   `json:"error,omitempty"`
	PublishedAt string   `json:"published_at,omitempty"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

// AccountResponse — аккаунт из API.
type AccountResponse struct {
	ID             string `json:"id"`
	UserID         string `json:"user_id"`
	Platform       string `json:"platform"`
	TokenExpiresAt string `json:"token_expires_at,omitempty"`
	IsActive       bool   `json:"is_active"`
	IsRevoked      bool   `json:"is_revoked"`
	SyncStatus     string `json:"sync_status"`
	SyncError      string `json:"sync_error,omitempty"`
	LastSyncAt     string `json:"last_sync_at,omitempty"`
	CreatedAt      string `json:"created_at"`
}

// RefreshResponse — результат ручного обновления токена.
type RefreshResponse struct {
	Refreshed bool `json:"refreshed"`
}

// NotificationResponse — уведомление из API.
type NotificationResponse struct {
	ID          string         `json:"id"`
	UserID      string         `json:"user_id"`
	Type        string         `json:"type"`
	ReferenceID string         `json:"reference_id"`
	Data        map[string]any `json:"data,omitempty"`
	CreatedAt   string         `json:"created_at"`
}

// --- Request types ---

// CreatePostRequest — создание поста.
type CreatePostRequest struct {
	UserID      string   `json:"user_id"`
	Content     string   `json:"content"`
	Platforms   []string `json:"platforms"`
	ScheduledAt string   `json:"scheduled_at,omitempty"`
}

// ConnectAccountRequest — подключение аккаунта.
type ConnectAccountRequest struct {
	UserID         string `json:"user_id"`
	Platform       string `json:"platform"`
	AccessToken    string `json:"access_token"`
	RefreshToken   string `json:"refresh_token,omitempty"`
	TokenExpiresAt string `json:"token_expires_at,omitempty"`
}

// ListPostsOpts — параметры фильтрации постов.
type ListPostsOpts struct {
	UserID string
	Status string
	Limit  int
}

// --- API response wrappers ---

type dataResponse struct {
	Data json.RawMessage `json:"data"`
}

type listResponse struct {
	Data  json.RawMessage `json:"data"`
	Total int             `json:"total"`
}

type errorResponse struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// --- Client ---

// Client — HTTP-клиент для Postline API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт клиент для API.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// --- Posts ---

// ListPosts возвращает посты пользователя с фильтрацией.
func (c *Client) ListPosts(opts ListPostsOpts) ([]PostResponse, error) {
	params := url.Values{}
	params.Set("user_id", opts.UserID)
	if opts.Status != "" {
		params.Set("status", opts.Status)
	}
	if opts.Limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", opts.Limit))
	}

	var posts []PostResponse
	err := c.list("/api/v1/posts", params, &posts)
	return posts, err
}

// CreatePost создаёт пост.
func (c *Client) CreatePost(req CreatePostRequest) (*PostResponse, error) {
	var post PostResponse
	err := c.post("/api/v1/posts", req, &post)
	return &post, err
}

// GetPost возвращает пост по ID.
func (c *Client) GetPost(id string) (*PostResponse, error) {
	var post PostResponse
	err := c.get("/api/v1/posts/"+id, &post)
	return &post, err
}

// --- Accounts ---

// ListAccounts возвращает аккаунты пользователя.
func (c *Client) ListAccounts(userID string) ([]AccountResponse, error) {
	params := url.Values{}
	params.Set("user_id", userID)

	var accounts []AccountResponse
	err := c.list("/api/v1/accounts", params, &accounts)
	return accounts, err
}

// ConnectAccount подключает аккаунт соцсети.
func (c *Client) ConnectAccount(req ConnectAccountRequest) (*AccountResponse, error) {
	var account AccountResponse
	err := c.post("/api/v1/accounts", req, &account)
	return &account, err
}

// RefreshAccount запускает ручное обновление токена.
func (c *Client) RefreshAccount(userID, provider string) (*RefreshResponse, error) {
	params := url.Values{}
	params.Set("user_id", userID)

	var result RefreshResponse
	err := c.post("/api/v1/accounts/"+provider+"/refresh?"+params.Encode(), nil, &result)
	return &result, err
}

// --- Notifications ---

// ListNotifications возвращает уведомления пользователя.
func (c *Client) ListNotifications(userID string, limit int) ([]NotificationResponse, error) {
	params := url.Values{}
	params.Set("user_id", userID)
	if limit > 0 {
		params.Set("limit", fmt.Sprintf("%d", limit))
	}

	var notifications []NotificationResponse
	err := c.list("/api/v1/notifications", params, &notifications)
	return notifications, err
}

// --- HTTP helpers ---

func (c *Client) get(path string, result any) error {
	return c.doData(http.MethodGet, path, nil, result)
}

func (c *Client) post(path string, body any, result any) error {
	return c.doData(http.MethodPost, path, body, result)
}

func (c *Client) list(path string, params url.Values, result any) error {
	if len(params) > 0 {
		path = path + "?" + params.Encode()
	}

	resp, err := c.do(http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	var lr listResponse
	if err := json.NewDecoder(resp.Body).Decode(&lr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return json.Unmarshal(lr.Data, result)
}

func (c *Client) doData(method, path string, body any, result any) error {
	resp, err := c.do(method, path, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkError(resp); err != nil {
		return err
	}

	// 204 No Content
	if resp.StatusCode == http.StatusNoContent {
		return nil
	}

	var dr dataResponse
	if err := json.NewDecoder(resp.Body).Decode(&dr); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	if result != nil {
		return json.Unmarshal(dr.Data, result)
	}
	return nil
}

func (c *Client) do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.httpClient.Do(req)
}

func (c *Client) checkError(resp *http.Response) error {
	if resp.StatusCode < 400 {
		return nil
	}

	var er errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&er); err != nil {
		return fmt.Errorf("API error: HTTP %d", resp.StatusCode)
	}

	return fmt.Errorf("%s: %s", er.Error.Code, er.Error.Message)
}
