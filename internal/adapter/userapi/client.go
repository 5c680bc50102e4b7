// Package userapi реализует HTTP-клиент CRUD-API справочника пользователей.
package userapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/GoArmGo/UserDirectory/internal/domain"
)

// Client ходит в API по адресу коллекции, например http://localhost:5001/api/users
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает клиент. Если httpClient == nil, используется клиент с таймаутом 10s.
func NewClient(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.do(ctx, http.MethodGet, c.baseURL, nil, http.StatusOK, &users); err != nil {
		return nil, err
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}

func (c *Client) CreateUser(ctx context.Context, input domain.UserInput) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPost, c.baseURL, input, http.StatusCreated, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateUser отправляет только заданные поля
func (c *Client) UpdateUser(ctx context.Context, id int64, patch domain.UserPatch) (*domain.User, error) {
	var user domain.User
	if err := c.do(ctx, http.MethodPut, c.userURL(id), patch, http.StatusOK, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) DeleteUser(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, c.userURL(id), nil, http.StatusNoContent, nil)
}

func (c *Client) userURL(id int64) string {
	return c.baseURL + "/" + strconv.FormatInt(id, 10)
}

// do выполняет запрос и декодирует ответ в out, если он задан.
func (c *Client) do(ctx context.Context, method, endpoint string, body any, wantStatus int, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("ошибка кодирования тела запроса: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("ошибка создания HTTP-запроса: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("ошибка выполнения HTTP-запроса %s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != wantStatus {
		return decodeError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("ошибка декодирования JSON ответа: %w", err)
	}
	return nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{StatusCode: resp.StatusCode}

	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	var body errorResponse
	if err := json.Unmarshal(bodyBytes, &body); err == nil && body.Error != "" {
		apiErr.Message = body.Error
		apiErr.Fields = body.Fields
	} else {
		apiErr.Message = strings.TrimSpace(string(bodyBytes))
	}
	return apiErr
}
