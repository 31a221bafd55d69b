// Package folio provides a client for the Folio REST API
package folio

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

const (
	DefaultBaseURL   = "http://localhost:8080"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 10 // requests per second
)

// Client talks to a Folio server on behalf of one user.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
}

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Folio client. token may be empty for the auth calls.
func NewClient(token string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// SetToken replaces the bearer token used for subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	return c.token
}

// APIError represents an API error
type APIError struct {
	StatusCode int
	Message    string
	Code       string
	Details    []models.FieldError
	Endpoint   string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("Folio API error: %s (status: %d, endpoint: %s)", e.Message, e.StatusCode, e.Endpoint)
	for _, d := range e.Details {
		msg += fmt.Sprintf("\n  %s: %s", d.Field, d.Message)
	}
	return msg
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether err is a 401 from the API.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// do performs a rate-limited request. A nil result discards the body.
func (c *Client) do(ctx context.Context, method, path string, body, result interface{}) error {
	// Wait for rate limiter
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug().Str("method", method).Str("url", path).Msg("Folio API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(resp.Body)
		apiErr := &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(data)),
			Endpoint:   path,
		}
		var er struct {
			Error   string              `json:"error"`
			Code    string              `json:"code"`
			Details []models.FieldError `json:"details"`
		}
		if json.Unmarshal(data, &er) == nil && er.Error != "" {
			apiErr.Message = er.Error
			apiErr.Code = er.Code
			apiErr.Details = er.Details
		}
		return apiErr
	}

	if result == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// envelope is the {"status","data"} wrapper used by the auth endpoints.
type envelope[T any] struct {
	Status string `json:"status"`
	Data   T      `json:"data"`
}

// Register creates an account and stores the returned token on the client.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/register", req)
}

// Login exchanges credentials for a token and stores it on the client.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
}

// DevLogin obtains a token for the server's local development user.
func (c *Client) DevLogin(ctx context.Context) (*AuthResult, error) {
	return c.authenticate(ctx, "/api/auth/dev", struct{}{})
}

func (c *Client) authenticate(ctx context.Context, path string, body interface{}) (*AuthResult, error) {
	var resp envelope[AuthResult]
	if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
		return nil, err
	}
	if resp.Data.Token == "" {
		return nil, fmt.Errorf("%s: response carried no token", path)
	}
	c.token = resp.Data.Token
	return &resp.Data, nil
}

// CurrentUser returns the user the token belongs to.
func (c *Client) CurrentUser(ctx context.Context) (*User, error) {
	var resp envelope[struct {
		User User `json:"user"`
	}]
	if err := c.do(ctx, http.MethodGet, "/api/auth/user", nil, &resp); err != nil {
		return nil, err
	}
	return &resp.Data.User, nil
}

// ListInvestments returns the user's investments, oldest first.
func (c *Client) ListInvestments(ctx context.Context) ([]Investment, error) {
	var resp struct {
		Investments []Investment `json:"investments"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/investments", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Investments, nil
}

// GetInvestment retrieves a specific investment by ID
func (c *Client) GetInvestment(ctx context.Context, id string) (*Investment, error) {
	var inv Investment
	if err := c.do(ctx, http.MethodGet, investmentPath(id), nil, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// CreateInvestment adds a holding.
func (c *Client) CreateInvestment(ctx context.Context, input *models.InvestmentInput) (*Investment, error) {
	var inv Investment
	if err := c.do(ctx, http.MethodPost, "/api/investments", input, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// UpdateInvestment replaces every field of a holding.
func (c *Client) UpdateInvestment(ctx context.Context, id string, input *models.InvestmentInput) (*Investment, error) {
	var inv Investment
	if err := c.do(ctx, http.MethodPut, investmentPath(id), input, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// DeleteInvestment removes a holding. Deleting an absent one succeeds.
func (c *Client) DeleteInvestment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, investmentPath(id), nil, nil)
}

// Summary retrieves the portfolio totals.
func (c *Client) Summary(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := c.do(ctx, http.MethodGet, "/api/portfolio/summary", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Holdings retrieves the table view with portfolio weights.
func (c *Client) Holdings(ctx context.Context) ([]Holding, error) {
	var resp struct {
		Holdings []Holding `json:"holdings"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/portfolio/holdings", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Holdings, nil
}

func investmentPath(id string) string {
	return "/api/investments/" + url.PathEscape(id)
}
