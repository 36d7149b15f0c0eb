// Package httpapi implements the remote gateway over the admin REST API.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/csg33k/beneficiary-admin/internal/domain"
	"github.com/csg33k/beneficiary-admin/internal/metrics"
	"github.com/csg33k/beneficiary-admin/internal/ports"
	"github.com/csg33k/beneficiary-admin/internal/session"
)

var _ ports.Gateway = (*Client)(nil)

// DefaultAuthScheme prefixes the token in the Authorization header.
const DefaultAuthScheme = "JWT"

// Client talks to the remote API. Every call except Login carries the
// session token; a 401 answer invalidates the session.
type Client struct {
	baseURL    string
	scheme     string
	session    *session.Session
	httpClient *http.Client
	log        *slog.Logger
}

// Option is a function that configures the Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(client *Client) {
		client.httpClient = c
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(client *Client) {
		client.httpClient.Timeout = d
	}
}

// WithAuthScheme overrides the Authorization scheme.
func WithAuthScheme(scheme string) Option {
	return func(client *Client) {
		if scheme != "" {
			client.scheme = scheme
		}
	}
}

func WithLogger(log *slog.Logger) Option {
	return func(client *Client) {
		client.log = log
	}
}

// NewClient creates a client for the API at baseURL that reads and writes
// its token through sess.
func NewClient(baseURL string, sess *session.Session, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		scheme:  DefaultAuthScheme,
		session: sess,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ── Auth ──────────────────────────────────────────────────────────────────────

type tokenResponse struct {
	AccessToken string `json:"access_token"`
}

// Login exchanges the credential for a token and stores it in the session.
// A rejected credential comes back as a *domain.RemoteError; it does not
// invalidate anything.
func (c *Client) Login(ctx context.Context, cred domain.AdminCredential) (string, error) {
	var resp tokenResponse
	if err := c.doRequest(ctx, "login", http.MethodPost, "/auth", false, cred, &resp); err != nil {
		return "", fmt.Errorf("login: %w", err)
	}
	if resp.AccessToken == "" {
		return "", errors.New("login: response carries no access_token")
	}
	if err := c.session.Set(ctx, resp.AccessToken); err != nil {
		return "", fmt.Errorf("store token: %w", err)
	}
	return resp.AccessToken, nil
}

// ── Reference data ────────────────────────────────────────────────────────────

func (c *Client) ListNationalities(ctx context.Context) ([]domain.Nationality, error) {
	var out []domain.Nationality
	if err := c.doRequest(ctx, "list nationalities", http.MethodGet, "/nationalities", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ── Employees ─────────────────────────────────────────────────────────────────

func (c *Client) ListEmployees(ctx context.Context) ([]domain.Employee, error) {
	var out []domain.Employee
	if err := c.doRequest(ctx, "list employees", http.MethodGet, "/employees", true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetEmployee(ctx context.Context, id int64) (*domain.Employee, error) {
	var out domain.Employee
	if err := c.doRequest(ctx, "get employee", http.MethodGet, fmt.Sprintf("/employee/%d", id), true, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateEmployee(ctx context.Context, e domain.Employee) (*domain.Employee, error) {
	e.ID = 0
	var out domain.Employee
	if err := c.doRequest(ctx, "create employee", http.MethodPost, "/employee", true, e, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, errMissingID("create employee")
	}
	return &out, nil
}

func (c *Client) UpdateEmployee(ctx context.Context, id int64, e domain.Employee) (*domain.Employee, error) {
	var out domain.Employee
	if err := c.doRequest(ctx, "update employee", http.MethodPut, fmt.Sprintf("/employee/%d", id), true, e, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, errMissingID("update employee")
	}
	return &out, nil
}

func (c *Client) DeleteEmployee(ctx context.Context, id int64) error {
	return c.doRequest(ctx, "delete employee", http.MethodDelete, fmt.Sprintf("/employee/%d", id), true, nil, nil)
}

// ── Beneficiaries ─────────────────────────────────────────────────────────────

func (c *Client) ListBeneficiaries(ctx context.Context, employeeID int64) ([]domain.Beneficiary, error) {
	var out []domain.Beneficiary
	path := fmt.Sprintf("/employee/%d/beneficiaries", employeeID)
	if err := c.doRequest(ctx, "list beneficiaries", http.MethodGet, path, true, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) CreateBeneficiary(ctx context.Context, employeeID int64, b domain.Beneficiary) (*domain.Beneficiary, error) {
	b.ID = 0
	b.EmployeeID = employeeID
	var out domain.Beneficiary
	path := fmt.Sprintf("/employee/%d/beneficiary", employeeID)
	if err := c.doRequest(ctx, "create beneficiary", http.MethodPost, path, true, b, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, errMissingID("create beneficiary")
	}
	return &out, nil
}

func (c *Client) UpdateBeneficiary(ctx context.Context, employeeID, beneficiaryID int64, b domain.Beneficiary) (*domain.Beneficiary, error) {
	b.EmployeeID = employeeID
	var out domain.Beneficiary
	path := fmt.Sprintf("/employee/%d/beneficiary/%d", employeeID, beneficiaryID)
	if err := c.doRequest(ctx, "update beneficiary", http.MethodPut, path, true, b, &out); err != nil {
		return nil, err
	}
	if out.ID == 0 {
		return nil, errMissingID("update beneficiary")
	}
	return &out, nil
}

func (c *Client) DeleteBeneficiary(ctx context.Context, employeeID, beneficiaryID int64) error {
	path := fmt.Sprintf("/employee/%d/beneficiary/%d", employeeID, beneficiaryID)
	return c.doRequest(ctx, "delete beneficiary", http.MethodDelete, path, true, nil, nil)
}

// errMissingID rejects a 2xx answer that does not describe the saved record.
func errMissingID(op string) error {
	return fmt.Errorf("%s: response carries no id", op)
}

// ── Transport ─────────────────────────────────────────────────────────────────

// doRequest performs an HTTP request and decodes the response into result.
// Non-2xx answers become *domain.RemoteError.
func (c *Client) doRequest(ctx context.Context, op, method, path string, authed bool, body, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-ID", requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		if token, ok := c.session.Token(ctx); ok {
			req.Header.Set("Authorization", c.scheme+" "+token)
		}
	}

	log := c.log.With("op", op, "request_id", requestID)
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.ObserveRequest(op, 0, time.Since(start))
		log.Warn("remote call failed", "error", err)
		return fmt.Errorf("%s: send request: %w", op, err)
	}
	defer resp.Body.Close()
	metrics.ObserveRequest(op, resp.StatusCode, time.Since(start))

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}
	log.Debug("remote call", "method", method, "path", path, "status", resp.StatusCode, "took", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rerr := &domain.RemoteError{Op: op, Status: resp.StatusCode, Body: respBody}
		if authed && resp.StatusCode == http.StatusUnauthorized {
			metrics.SessionInvalidated()
			c.session.Invalidate(ctx)
		}
		return rerr
	}

	if result == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("%s: unmarshal response: %w", op, err)
	}
	return nil
}
