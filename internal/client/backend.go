package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"qkart/storefront/internal/config"
	"qkart/storefront/internal/domain"

	log "github.com/sirupsen/logrus"
	"go.uber.org/ratelimit"
	"resty.dev/v3"
)

// Backend is the storefront REST API
type Backend interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	SearchProducts(ctx context.Context, text string) ([]domain.Product, error)

	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*domain.Session, error)

	GetCart(ctx context.Context, token string) ([]domain.CartReference, error)
	UpdateCart(ctx context.Context, token string, ref domain.CartReference) ([]domain.CartReference, error)
	Checkout(ctx context.Context, token, addressID string) error

	ListAddresses(ctx context.Context, token string) ([]domain.Address, error)
	AddAddress(ctx context.Context, token, address string) ([]domain.Address, error)
	DeleteAddress(ctx context.Context, token, addressID string) ([]domain.Address, error)
}

type backendClient struct {
	rl         ratelimit.Limiter
	httpClient *resty.Client
}

func NewBackendClient(cfg config.BackendConfig) Backend {
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(cfg.Endpoint()).
		SetTimeout(timeout).
		SetRetryCount(cfg.MaxRetries).
		SetRetryWaitTime(500*time.Millisecond).
		SetRetryMaxWaitTime(5*time.Second).
		SetHeader("Accept", "application/json").
		SetHeader("Content-Type", "application/json")

	rl := ratelimit.NewUnlimited()
	if cfg.MaxRequestsPerSecond > 0 {
		rl = ratelimit.New(cfg.MaxRequestsPerSecond)
	}

	log.Debugf("🔗 Backend endpoint: %s", cfg.Endpoint())

	return &backendClient{
		rl:         rl,
		httpClient: client,
	}
}

func (c *backendClient) ListProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	if err := c.do(ctx, http.MethodGet, "/products", "", nil, nil, &products); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return orEmpty(products), nil
}

func (c *backendClient) SearchProducts(ctx context.Context, text string) ([]domain.Product, error) {
	var products []domain.Product
	query := map[string]string{"value": text}
	if err := c.do(ctx, http.MethodGet, "/product/search", "", query, nil, &products); err != nil {
		return nil, fmt.Errorf("failed to search products for %q: %w", text, err)
	}
	return orEmpty(products), nil
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *backendClient) Register(ctx context.Context, username, password string) error {
	body := credentials{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", "", nil, body, nil); err != nil {
		return fmt.Errorf("failed to register %s: %w", username, err)
	}
	return nil
}

type loginResponse struct {
	Success  bool    `json:"success"`
	Token    string  `json:"token"`
	Username string  `json:"username"`
	Balance  float64 `json:"balance"`
}

func (c *backendClient) Login(ctx context.Context, username, password string) (*domain.Session, error) {
	var resp loginResponse
	body := credentials{Username: username, Password: password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", "", nil, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to log in %s: %w", username, err)
	}

	if resp.Token == "" {
		return nil, fmt.Errorf("failed to log in %s: %w: missing token", username, ErrInvalidResponse)
	}

	return &domain.Session{
		Username: resp.Username,
		Token:    resp.Token,
		Balance:  resp.Balance,
	}, nil
}

func (c *backendClient) GetCart(ctx context.Context, token string) ([]domain.CartReference, error) {
	var refs []domain.CartReference
	if err := c.do(ctx, http.MethodGet, "/cart", token, nil, nil, &refs); err != nil {
		return nil, fmt.Errorf("failed to get cart: %w", err)
	}
	return orEmpty(refs), nil
}

func (c *backendClient) UpdateCart(ctx context.Context, token string, ref domain.CartReference) ([]domain.CartReference, error) {
	var refs []domain.CartReference
	if err := c.do(ctx, http.MethodPost, "/cart", token, nil, ref, &refs); err != nil {
		return nil, fmt.Errorf("failed to update cart for product %s: %w", ref.ProductID, err)
	}
	return orEmpty(refs), nil
}

func (c *backendClient) Checkout(ctx context.Context, token, addressID string) error {
	body := map[string]string{"addressId": addressID}
	if err := c.do(ctx, http.MethodPost, "/cart/checkout", token, nil, body, nil); err != nil {
		return fmt.Errorf("failed to check out: %w", err)
	}
	return nil
}

func (c *backendClient) ListAddresses(ctx context.Context, token string) ([]domain.Address, error) {
	var addresses []domain.Address
	if err := c.do(ctx, http.MethodGet, "/user/addresses", token, nil, nil, &addresses); err != nil {
		return nil, fmt.Errorf("failed to list addresses: %w", err)
	}
	return orEmpty(addresses), nil
}

func (c *backendClient) AddAddress(ctx context.Context, token, address string) ([]domain.Address, error) {
	var addresses []domain.Address
	body := map[string]string{"address": address}
	if err := c.do(ctx, http.MethodPost, "/user/addresses", token, nil, body, &addresses); err != nil {
		return nil, fmt.Errorf("failed to add address: %w", err)
	}
	return orEmpty(addresses), nil
}

func (c *backendClient) DeleteAddress(ctx context.Context, token, addressID string) ([]domain.Address, error) {
	var addresses []domain.Address
	path := "/user/addresses/" + addressID
	if err := c.do(ctx, http.MethodDelete, path, token, nil, nil, &addresses); err != nil {
		return nil, fmt.Errorf("failed to delete address %s: %w", addressID, err)
	}
	return orEmpty(addresses), nil
}

// do performs one request. Non-2xx responses become *APIError, transport
// failures wrap ErrUnreachable and undecodable bodies wrap ErrInvalidResponse.
func (c *backendClient) do(
	ctx context.Context,
	method, path, token string,
	query map[string]string,
	body any,
	out any,
) error {
	c.rl.Take()

	req := c.httpClient.R().SetContext(ctx)
	if token != "" {
		req.SetAuthToken(token)
	}
	if len(query) > 0 {
		req.SetQueryParams(query)
	}
	if body != nil {
		req.SetBody(body)
	}

	resp, err := req.Execute(method, path)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("request cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}

	raw := resp.String()

	if resp.IsError() {
		apiErr := &APIError{StatusCode: resp.StatusCode()}
		var payload errorPayload
		if raw != "" && json.Unmarshal([]byte(raw), &payload) == nil {
			apiErr.Message = payload.Message
		}
		log.Debugf("Backend %s %s returned %d", method, path, resp.StatusCode())
		return apiErr
	}

	if out == nil || raw == "" {
		return nil
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInvalidResponse, method, path, err)
	}

	return nil
}

func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
