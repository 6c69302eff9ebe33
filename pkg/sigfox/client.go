package sigfox

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

	"go.uber.org/zap"
)

// DefaultBaseURL is the production Sigfox v2 API endpoint.
const DefaultBaseURL = "https://api.sigfox.com/v2"

// DefaultTimeout bounds a single request (connect + response) when no
// timeout is configured.
const DefaultTimeout = 30 * time.Second

// Client is the entry point to the Sigfox v2 API. It issues stateless,
// sequential request/response cycles — one HTTP call per operation, no
// retries, no caching.
type Client struct {
	baseURL    string
	login      string
	password   string
	httpClient *http.Client
	logger     *zap.Logger

	Devices       *DevicesService
	DeviceTypes   *DeviceTypesService
	Groups        *GroupsService
	APIUsers      *APIUsersService
	Users         *UsersService
	BaseStations  *BaseStationsService
	ContractInfos *ContractInfosService
	Coverages     *CoveragesService
}

// Option is a functional option for configuring a Client.
type Option func(*Client)

// WithHTTPClient sets a custom http.Client, overriding the configured timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the hard deadline covering connect and response for
// every request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithLogger enables debug logging of each request (method, path, status,
// duration). The default logger discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a Client authenticating with the given API credentials.
// An empty baseURL falls back to DefaultBaseURL; a trailing slash is
// stripped. Credentials may be empty at construction time — operations
// fail with an Authentication error before any network call when they are.
func New(baseURL, login, password string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		login:      login,
		password:   password,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	c.Devices = &DevicesService{c: c}
	c.DeviceTypes = &DeviceTypesService{c: c}
	c.Groups = &GroupsService{c: c}
	c.APIUsers = &APIUsersService{c: c}
	c.Users = &UsersService{c: c}
	c.BaseStations = &BaseStationsService{c: c}
	c.ContractInfos = &ContractInfosService{c: c}
	c.Coverages = &CoveragesService{c: c}
	return c
}

// do executes one HTTP request and returns the raw response body, or the
// classified *APIError. Exactly one attempt per call.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	if c.login == "" || c.password == "" {
		return nil, &APIError{
			Kind:    KindAuthentication,
			Message: "API credentials are not configured; run 'sigfox config init' or set SIGFOX_API_LOGIN / SIGFOX_API_PASSWORD",
		}
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindUnknown, Message: fmt.Sprintf("marshal request body: %v", err)}
		}
		bodyReader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, &APIError{Kind: KindUnknown, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.SetBasicAuth(c.login, c.password)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		apiErr := Classify(0, nil, err)
		c.logger.Debug("request failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.String("kind", apiErr.Kind.String()),
			zap.Duration("elapsed", time.Since(start)),
		)
		return nil, apiErr
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, Classify(0, nil, err)
	}

	c.logger.Debug("request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode >= 300 {
		return nil, Classify(resp.StatusCode, respBody, nil)
	}
	return respBody, nil
}

// ── generic resource helpers ────────────────────────────────────────────

type paging struct {
	Next string `json:"next"`
}

type listEnvelope[T any] struct {
	Data   []T     `json:"data"`
	Paging *paging `json:"paging"`
}

// listResources fetches one page from a list endpoint. A response with no
// matches yields an empty slice, not an error.
func listResources[T any](ctx context.Context, c *Client, path string, q ListQuery) ([]T, error) {
	body, err := c.do(ctx, http.MethodGet, path, q.Values(), nil)
	if err != nil {
		return nil, err
	}
	var envelope listEnvelope[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, decodeError(path, err)
	}
	if envelope.Data == nil {
		return []T{}, nil
	}
	return envelope.Data, nil
}

func getResource[T any](ctx context.Context, c *Client, path string, query url.Values) (*T, error) {
	body, err := c.do(ctx, http.MethodGet, path, query, nil)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, decodeError(path, err)
	}
	return &out, nil
}

func createResource[T any](ctx context.Context, c *Client, path string, payload any) (*T, error) {
	body, err := c.do(ctx, http.MethodPost, path, nil, payload)
	if err != nil {
		return nil, err
	}
	var out T
	if len(body) > 0 {
		if err := json.Unmarshal(body, &out); err != nil {
			return nil, decodeError(path, err)
		}
	}
	return &out, nil
}

// updateResource issues a PUT with a partial payload. The service replies
// 204 on success, so there is nothing to decode.
func updateResource(ctx context.Context, c *Client, path string, payload any) error {
	_, err := c.do(ctx, http.MethodPut, path, nil, payload)
	return err
}

func deleteResource(ctx context.Context, c *Client, path string) error {
	_, err := c.do(ctx, http.MethodDelete, path, nil, nil)
	return err
}

func decodeError(path string, err error) *APIError {
	return &APIError{Kind: KindUnknown, Message: fmt.Sprintf("decode response from %s: %v", path, err)}
}

type requiredField struct {
	name  string
	value string
}

// requireFields returns a Validation error naming the first empty required
// field. Only shape is checked client-side; semantic validation belongs to
// the service.
func requireFields(fields []requiredField) *APIError {
	for _, f := range fields {
		if f.value == "" {
			return &APIError{Kind: KindValidation, Message: f.name + " is required"}
		}
	}
	return nil
}
