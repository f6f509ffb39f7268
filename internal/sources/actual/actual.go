// Package actual talks to an Actual Budget server over its HTTP API.
package actual

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"budgetreport/internal/cache"
	"budgetreport/internal/core"
	"budgetreport/internal/sources"
)

const tokenHeader = "X-Actual-Token"

var (
	// ErrNotLoggedIn is returned by authenticated calls made before Login.
	ErrNotLoggedIn = errors.New("actual: not logged in")
	// ErrNoToken is returned when the login response carries no token.
	ErrNoToken = errors.New("actual: login returned no token")
)

var (
	_ sources.TransactionSource = (*Client)(nil)
	_ sources.CategoryLister    = (*Client)(nil)
)

// Category is a budget category as listed by the server.
type Category struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Group    string `json:"group"`
	IsIncome bool   `json:"isIncome"`
}

// Account is a budget account as listed by the server.
type Account struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

type transactionRecord struct {
	ID         string  `json:"id"`
	Date       string  `json:"date"`
	Amount     int64   `json:"amount"`
	Payee      string  `json:"payee"`
	Category   *string `json:"category"`
	Account    string  `json:"account"`
	Notes      *string `json:"notes"`
	IsTransfer bool    `json:"isTransfer"`
}

type envelope[T any] struct {
	Data T `json:"data"`
}

// Client is safe for concurrent use once logged in.
type Client struct {
	baseURL  string
	password string
	http     *http.Client

	mu    sync.RWMutex
	token string

	categories *cache.LRU[string, string]
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger sets the logger used for degraded lookups.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithCategoryTTL sets how long category names stay cached.
func WithCategoryTTL(ttl time.Duration) Option {
	return func(c *Client) { c.categories = cache.NewLRU[string, string](1024, ttl) }
}

func New(serverURL, password string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(serverURL), "/"),
		password:   password,
		http:       &http.Client{Timeout: 30 * time.Second},
		categories: cache.NewLRU[string, string](1024, 15*time.Minute),
		logger:     slog.Default(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Login exchanges the server password for a session token.
func (c *Client) Login(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"password": c.password})
	if err != nil {
		return fmt.Errorf("encode login: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/account/login", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out envelope[struct {
		Token string `json:"token"`
	}]
	if err := c.do(req, &out); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	if out.Data.Token == "" {
		return ErrNoToken
	}
	c.mu.Lock()
	c.token = out.Data.Token
	c.mu.Unlock()
	return nil
}

// Transactions implements sources.TransactionSource. Category IDs are
// resolved to names when the category list knows them; if the list cannot
// be fetched the raw values are kept.
func (c *Client) Transactions(ctx context.Context, start, end core.Date) ([]core.Transaction, error) {
	q := url.Values{}
	q.Set("startDate", start.String())
	q.Set("endDate", end.String())

	var out envelope[[]transactionRecord]
	if err := c.get(ctx, "/transactions?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("fetch transactions %s..%s: %w", start, end, err)
	}

	if err := c.loadCategories(ctx); err != nil {
		c.logger.WarnContext(ctx, "Category names unavailable, keeping raw values", "error", err)
	}

	txns := make([]core.Transaction, 0, len(out.Data))
	for _, r := range out.Data {
		d, err := core.ParseDate(r.Date)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: date %q: %w", r.ID, r.Date, err)
		}
		t := core.Transaction{
			ID:         r.ID,
			Date:       d,
			Amount:     core.Money{Cents: r.Amount},
			Payee:      r.Payee,
			Account:    r.Account,
			IsTransfer: r.IsTransfer,
		}
		if r.Category != nil {
			t.Category = *r.Category
			if name, ok := c.categories.Get(t.Category); ok {
				t.Category = name
			}
		}
		if r.Notes != nil {
			t.Notes = *r.Notes
		}
		txns = append(txns, t)
	}
	return txns, nil
}

// ListCategories returns the full category list.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var out envelope[[]Category]
	if err := c.get(ctx, "/categories", &out); err != nil {
		return nil, fmt.Errorf("fetch categories: %w", err)
	}
	return out.Data, nil
}

// Categories implements sources.CategoryLister.
func (c *Client) Categories(ctx context.Context) ([]string, error) {
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(cats))
	for _, cat := range cats {
		out = append(out, cat.Name)
	}
	return out, nil
}

// Accounts returns the account list.
func (c *Client) Accounts(ctx context.Context) ([]Account, error) {
	var out envelope[[]Account]
	if err := c.get(ctx, "/accounts", &out); err != nil {
		return nil, fmt.Errorf("fetch accounts: %w", err)
	}
	return out.Data, nil
}

// loadCategories refills the ID to name cache once its entries have expired.
func (c *Client) loadCategories(ctx context.Context) error {
	c.categories.CleanExpired()
	if c.categories.Len() > 0 {
		return nil
	}
	cats, err := c.ListCategories(ctx)
	if err != nil {
		return err
	}
	fresh := make(map[string]string, len(cats))
	for _, cat := range cats {
		fresh[cat.ID] = cat.Name
	}
	c.categories.Replace(fresh)
	return nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	c.mu.RLock()
	token := c.token
	c.mu.RUnlock()
	if token == "" {
		return ErrNotLoggedIn
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(tokenHeader, token)
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// StatusError reports a non-2xx response.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}
