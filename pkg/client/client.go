// Package client is a typed Go consumer of the library lending HTTP surface,
// used by the libraryctl command line client.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/chanotai/library-lending/internal/model"
)

type Client struct {
	baseURL string
	token   string
	client  *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		client:  &http.Client{Timeout: time.Minute},
	}
}

func (c *Client) SetToken(token string) {
	c.token = token
}

// APIError carries the envelope message of a failed call.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d: %s", e.StatusCode, e.Message)
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Count   *int            `json:"count"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer = bytes.NewBuffer(nil)
	if body != nil {
		if err := json.NewEncoder(reqBody).Encode(body); err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if !env.Success {
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	if out != nil && env.Data != nil {
		return json.Unmarshal(env.Data, out)
	}
	return nil
}

func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, http.MethodPost, "/register", req, &out)
	return out, err
}

func (c *Client) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	var out model.AuthResponse
	err := c.do(ctx, http.MethodPost, "/login", req, &out)
	return out, err
}

func (c *Client) Health(ctx context.Context) (model.Health, error) {
	var out model.Health
	err := c.do(ctx, http.MethodGet, "/api/health", nil, &out)
	return out, err
}

func (c *Client) Books(ctx context.Context) ([]model.Book, error) {
	var out []model.Book
	err := c.do(ctx, http.MethodGet, "/books", nil, &out)
	return out, err
}

func (c *Client) Book(ctx context.Context, id string) (model.Book, error) {
	var out model.Book
	err := c.do(ctx, http.MethodGet, "/books/"+id, nil, &out)
	return out, err
}

func (c *Client) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	var out model.Book
	err := c.do(ctx, http.MethodPost, "/books", req, &out)
	return out, err
}

func (c *Client) UpdateBook(ctx context.Context, id string, req model.BookRequest) (model.Book, error) {
	var out model.Book
	err := c.do(ctx, http.MethodPut, "/books/"+id, req, &out)
	return out, err
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/books/"+id, nil, nil)
}

func (c *Client) Borrow(ctx context.Context, bookID string) (model.TransactionDetails, error) {
	var out model.TransactionDetails
	err := c.do(ctx, http.MethodPost, "/borrow", model.BorrowRequest{BookID: bookID}, &out)
	return out, err
}

func (c *Client) Return(ctx context.Context, transactionID string) (model.TransactionDetails, error) {
	var out model.TransactionDetails
	err := c.do(ctx, http.MethodPost, "/return", model.ReturnRequest{TransactionID: transactionID}, &out)
	return out, err
}

func (c *Client) MyBorrowed(ctx context.Context) ([]model.TransactionDetails, error) {
	var out []model.TransactionDetails
	err := c.do(ctx, http.MethodGet, "/my-borrowed", nil, &out)
	return out, err
}

func (c *Client) History(ctx context.Context, userID string) ([]model.TransactionDetails, error) {
	var out []model.TransactionDetails
	err := c.do(ctx, http.MethodGet, "/history/"+userID, nil, &out)
	return out, err
}

func (c *Client) AllTransactions(ctx context.Context) ([]model.TransactionDetails, error) {
	var out []model.TransactionDetails
	err := c.do(ctx, http.MethodGet, "/admin/borrowed-books", nil, &out)
	return out, err
}

func (c *Client) Users(ctx context.Context) ([]model.User, error) {
	var out []model.User
	err := c.do(ctx, http.MethodGet, "/users", nil, &out)
	return out, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+id, nil, nil)
}

func (c *Client) Stats(ctx context.Context) (model.Stats, error) {
	var out model.Stats
	err := c.do(ctx, http.MethodGet, "/admin/stats", nil, &out)
	return out, err
}
