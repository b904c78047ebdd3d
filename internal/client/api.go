// Package client is the Go client for the expense API: a thin HTTP
// wrapper, a list cache, and the create-expense form flow.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"spendlog/internal/core"
)

// Client calls the expense API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	token      string
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken sets the bearer token sent with every request.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login authenticates and stores the returned session token on the
// client.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	payload := map[string]string{"email": email, "password": password}
	var out struct {
		Token  string `json:"token"`
		UserID string `json:"userId"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/login", payload, &out); err != nil {
		return "", err
	}
	c.token = out.Token
	return out.UserID, nil
}

// ListExpenses fetches the caller's current expense page.
func (c *Client) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	var out struct {
		Expense []core.Expense `json:"expense"`
	}
	if err := c.do(ctx, http.MethodGet, "/expenses/", nil, &out); err != nil {
		return nil, err
	}
	return out.Expense, nil
}

// CreateExpense submits a new expense and returns the stored record.
func (c *Client) CreateExpense(ctx context.Context, input core.ExpenseInput) (core.Expense, error) {
	var out struct {
		Expense core.Expense `json:"expense"`
	}
	if err := c.do(ctx, http.MethodPost, "/expenses/", input, &out); err != nil {
		return core.Expense{}, err
	}
	return out.Expense, nil
}

// GetTotal fetches the caller's total spending.
func (c *Client) GetTotal(ctx context.Context) (core.Money, error) {
	var out struct {
		Total core.Money `json:"total"`
	}
	if err := c.do(ctx, http.MethodGet, "/expenses/total", nil, &out); err != nil {
		return core.Money{}, err
	}
	return out.Total, nil
}

// apiError is a non-2xx response.
type apiError struct {
	Status  int
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

func (c *Client) do(ctx context.Context, method, path string, payload, out any) error {
	var body *bytes.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	} else {
		body = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&errBody)
		if errBody.Error == "" {
			errBody.Error = http.StatusText(resp.StatusCode)
		}
		return &apiError{Status: resp.StatusCode, Message: errBody.Error}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}
