package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/iudanet/mazadlive/internal/models"
	"github.com/iudanet/mazadlive/pkg/api"
)

// APIKeyHeader is the static key header every backend request carries.
const APIKeyHeader = "x-access-key"

//go:generate moq -out client_mock.go . ClientAPI

// ClientAPI описывает операции backend REST API, которые использует клиент
type ClientAPI interface {
	VerifyOTP(ctx context.Context, req api.VerifyOTPRequest) (*api.SignInResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.Tokens, error)
	ListChats(ctx context.Context, accessToken, userID string) ([]api.Chat, error)
	ListMessages(ctx context.Context, accessToken, chatID string) ([]api.Message, error)
	CheckBids(ctx context.Context, accessToken, userID string) (*api.BidCheckResult, error)
	ListNotifications(ctx context.Context, accessToken, userID string) ([]models.NotificationEvent, error)
	MarkNotificationRead(ctx context.Context, accessToken, notificationID string) error
	MarkAllNotificationsRead(ctx context.Context, accessToken, userID string) error
	DeleteNotification(ctx context.Context, accessToken, notificationID string) error
}

// Client представляет HTTP клиент для взаимодействия с backend
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

var _ ClientAPI = (*Client)(nil)

// NewClient создает новый API клиент
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Копируем заголовки авторизации при редиректе
				if len(via) > 0 {
					for _, h := range []string{"Authorization", APIKeyHeader} {
						if v := via[0].Header.Get(h); v != "" {
							req.Header.Set(h, v)
						}
					}
				}
				return nil
			},
		},
	}
}

// VerifyOTP выполняет вход по телефону и одноразовому коду
func (c *Client) VerifyOTP(ctx context.Context, req api.VerifyOTPRequest) (*api.SignInResponse, error) {
	var resp api.SignInResponse
	if err := c.doRequest(ctx, http.MethodPost, "/auth/verify-otp", "", req, &resp); err != nil {
		return nil, fmt.Errorf("verify otp request failed: %w", err)
	}
	return &resp, nil
}

// Refresh обменивает refresh token на новую пару токенов
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*models.Tokens, error) {
	if refreshToken == "" {
		return nil, ErrAuthRequired
	}
	var resp models.Tokens
	req := api.RefreshRequest{RefreshToken: refreshToken}
	if err := c.doRequest(ctx, http.MethodPost, "/auth/refresh", "", req, &resp); err != nil {
		return nil, fmt.Errorf("refresh request failed: %w", err)
	}
	return &resp, nil
}

// ListChats возвращает список чатов пользователя
func (c *Client) ListChats(ctx context.Context, accessToken, userID string) ([]api.Chat, error) {
	if err := requireToken(accessToken); err != nil {
		return nil, err
	}
	var chats []api.Chat
	path := "/chat/user/" + url.PathEscape(userID)
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &chats); err != nil {
		return nil, fmt.Errorf("list chats request failed: %w", err)
	}
	return chats, nil
}

// ListMessages возвращает сообщения чата
func (c *Client) ListMessages(ctx context.Context, accessToken, chatID string) ([]api.Message, error) {
	if err := requireToken(accessToken); err != nil {
		return nil, err
	}
	var messages []api.Message
	path := "/message/" + url.PathEscape(chatID)
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &messages); err != nil {
		return nil, fmt.Errorf("list messages request failed: %w", err)
	}
	return messages, nil
}

// CheckBids запрашивает изменения статусов ставок пользователя
func (c *Client) CheckBids(ctx context.Context, accessToken, userID string) (*api.BidCheckResult, error) {
	if err := requireToken(accessToken); err != nil {
		return nil, err
	}
	var resp api.BidCheckResult
	req := api.BidCheckRequest{UserID: userID}
	if err := c.doRequest(ctx, http.MethodPost, "/bid/check", accessToken, req, &resp); err != nil {
		return nil, fmt.Errorf("check bids request failed: %w", err)
	}
	return &resp, nil
}

// ListNotifications возвращает уведомления пользователя
func (c *Client) ListNotifications(ctx context.Context, accessToken, userID string) ([]models.NotificationEvent, error) {
	if err := requireToken(accessToken); err != nil {
		return nil, err
	}
	var events []models.NotificationEvent
	path := "/notification/user/" + url.PathEscape(userID)
	if err := c.doRequest(ctx, http.MethodGet, path, accessToken, nil, &events); err != nil {
		return nil, fmt.Errorf("list notifications request failed: %w", err)
	}
	return events, nil
}

// MarkNotificationRead помечает уведомление прочитанным
func (c *Client) MarkNotificationRead(ctx context.Context, accessToken, notificationID string) error {
	if err := requireToken(accessToken); err != nil {
		return err
	}
	path := "/notification/" + url.PathEscape(notificationID) + "/read"
	if err := c.doRequest(ctx, http.MethodPut, path, accessToken, nil, nil); err != nil {
		return fmt.Errorf("mark notification read request failed: %w", err)
	}
	return nil
}

// MarkAllNotificationsRead помечает все уведомления пользователя прочитанными
func (c *Client) MarkAllNotificationsRead(ctx context.Context, accessToken, userID string) error {
	if err := requireToken(accessToken); err != nil {
		return err
	}
	path := "/notification/user/" + url.PathEscape(userID) + "/read-all"
	if err := c.doRequest(ctx, http.MethodPut, path, accessToken, nil, nil); err != nil {
		return fmt.Errorf("mark all notifications read request failed: %w", err)
	}
	return nil
}

// DeleteNotification удаляет уведомление
func (c *Client) DeleteNotification(ctx context.Context, accessToken, notificationID string) error {
	if err := requireToken(accessToken); err != nil {
		return err
	}
	path := "/notification/" + url.PathEscape(notificationID)
	if err := c.doRequest(ctx, http.MethodDelete, path, accessToken, nil, nil); err != nil {
		return fmt.Errorf("delete notification request failed: %w", err)
	}
	return nil
}

func requireToken(accessToken string) error {
	if strings.TrimSpace(accessToken) == "" {
		return ErrAuthRequired
	}
	return nil
}

// doRequest выполняет HTTP запрос
func (c *Client) doRequest(ctx context.Context, method, path, accessToken string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return newStatusError(resp.StatusCode, respBody)
	}

	if result != nil && len(bytes.TrimSpace(respBody)) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// newStatusError извлекает сообщение из тела ответа с ошибкой
func newStatusError(statusCode int, body []byte) *StatusError {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil {
		msg := errResp.Message
		if msg == "" {
			msg = errResp.Error
		}
		if msg != "" {
			return &StatusError{StatusCode: statusCode, Message: msg}
		}
	}
	return &StatusError{StatusCode: statusCode, Message: strings.TrimSpace(string(body))}
}
