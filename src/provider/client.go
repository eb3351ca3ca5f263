package provider

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout bounds connecting and waiting for response headers. Kept short
// so the interactive tool fails fast instead of hanging.
const DefaultTimeout = 3 * time.Second

// Authenticator decorates an outgoing request with provider credentials.
type Authenticator func(req *http.Request)

// BearerAuth authenticates with an "Authorization: Bearer" header.
func BearerAuth(token string) Authenticator {
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// BasicAuth authenticates with HTTP basic auth.
func BasicAuth(user, password string) Authenticator {
	encoded := base64.StdEncoding.EncodeToString([]byte(user + ":" + password))
	return func(req *http.Request) {
		req.Header.Set("Authorization", "Basic "+encoded)
	}
}

// Response is the outcome of a successful Get.
type Response struct {
	Body        []byte
	ContentType string
	// Location is set when the server answered with a redirection.
	Location string
}

// Redirect reports whether the response points somewhere else.
func (r *Response) Redirect() bool {
	return r.Location != ""
}

// Client is the HTTP plumbing shared by every provider client.
// Redirects are never followed implicitly: Get hands the location back and
// Download follows it exactly once.
type Client struct {
	name    string
	baseURL string
	auth    Authenticator

	mu         sync.Mutex
	httpClient *http.Client
}

// NewClient creates a client for the named provider. auth may be nil.
func NewClient(name, baseURL string, auth Authenticator) *Client {
	return &Client{
		name:       name,
		baseURL:    strings.TrimRight(baseURL, "/"),
		auth:       auth,
		httpClient: newHTTPClient(),
	}
}

func newHTTPClient() *http.Client {
	return &http.Client{
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: DefaultTimeout,
			}).DialContext,
			TLSHandshakeTimeout:   DefaultTimeout,
			ResponseHeaderTimeout: DefaultTimeout,
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

// Name returns the provider name used in error messages.
func (c *Client) Name() string {
	return c.name
}

// BaseURL returns the endpoint relative paths are resolved against.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SetBaseURL points the client at another endpoint.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = strings.TrimRight(baseURL, "/")
}

// Reset drops the underlying connections and starts with a fresh transport.
func (c *Client) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.httpClient.CloseIdleConnections()
	c.httpClient = newHTTPClient()
}

func (c *Client) client() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.httpClient
}

// Get performs an authenticated GET. path is either relative to the base URL
// or an absolute URL.
func (c *Client) Get(ctx context.Context, path string) (*Response, error) {
	target := path
	if !strings.HasPrefix(path, "http://") && !strings.HasPrefix(path, "https://") {
		target = c.baseURL + path
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if c.auth != nil {
		c.auth(req)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 204:
		return &Response{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
	case resp.StatusCode >= 300 && resp.StatusCode < 400 && resp.Header.Get("Location") != "":
		return &Response{Location: resp.Header.Get("Location")}, nil
	default:
		return nil, &RequestError{Code: resp.StatusCode, Body: string(body), Provider: c.name}
	}
}

// GetJSON performs Get and decodes the JSON body into v.
func (c *Client) GetJSON(ctx context.Context, path string, v any) error {
	resp, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if resp.Redirect() {
		return &RequestError{
			Code:     http.StatusFound,
			Provider: c.name,
			Message:  fmt.Sprintf("%s answered %s with an unexpected redirection to %s", c.name, path, resp.Location),
		}
	}
	if len(resp.Body) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.Body, v); err != nil {
		return fmt.Errorf("failed to decode %s response: %w", c.name, err)
	}
	return nil
}

// Download fetches an absolute URL without credentials. It is used to follow
// the location returned by Get, which usually is a short lived signed URL.
func (c *Client) Download(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read log content: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &RequestError{Code: resp.StatusCode, Body: string(body), Provider: c.name}
	}

	return body, nil
}

// Follow downloads the location of a redirection, or returns the body as is.
func (c *Client) Follow(ctx context.Context, resp *Response) ([]byte, error) {
	if !resp.Redirect() {
		return resp.Body, nil
	}
	return c.Download(ctx, resp.Location)
}
