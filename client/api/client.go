package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/viant/afs/url"
)

// maxResponseSize bounds the response body read by the client.
const maxResponseSize = 1 << 20

// Client calls the storefront API.
type Client struct {
	baseURL    string
	public     *http.Client
	authorized *http.Client
}

// Option represents option
type Option func(c *Client)

// WithHTTPClient sets the client used for public endpoints; it must carry the
// renewal cookie jar.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.public = client
	}
}

// WithAuthorizedClient sets the client used for endpoints requiring authorization,
// typically backed by the authorized transport.
func WithAuthorizedClient(client *http.Client) Option {
	return func(c *Client) {
		c.authorized = client
	}
}

// New creates a client for the API rooted at baseURL.
func New(baseURL string, options ...Option) *Client {
	ret := &Client{baseURL: baseURL, public: http.DefaultClient}
	for _, opt := range options {
		opt(ret)
	}
	if ret.authorized == nil {
		ret.authorized = ret.public
	}
	return ret
}

// BaseURL returns API root URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type request struct {
	method      string
	path        string
	body        io.Reader
	contentType string
	authorized  bool
}

func jsonRequest(method, path string, payload interface{}) (*request, error) {
	ret := &request{method: method, path: path}
	if payload == nil {
		return ret, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	ret.body = bytes.NewReader(data)
	ret.contentType = "application/json"
	return ret, nil
}

func (c *Client) do(ctx context.Context, req *request, out interface{}) error {
	httpRequest, err := http.NewRequestWithContext(ctx, req.method, url.Join(c.baseURL, req.path), req.body)
	if err != nil {
		return err
	}
	httpRequest.Header.Set("Accept", "application/json")
	if req.contentType != "" {
		httpRequest.Header.Set("Content-Type", req.contentType)
	}
	client := c.public
	if req.authorized {
		client = c.authorized
	}
	resp, err := client.Do(httpRequest)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return err
		}
		return fmt.Errorf("%v %v: %w", req.method, req.path, connectivity(err))
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return fmt.Errorf("%v %v: %w", req.method, req.path, connectivity(err))
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return parseError(body, resp.StatusCode)
	}
	if out == nil || len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err = json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}
	return nil
}

// connectivity tags transport failures with ErrUnavailable, leaving session
// invalidation reported by the authorized transport as is.
func connectivity(err error) error {
	if isSessionError(err) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrUnavailable, err)
}
