package mlflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"dbsmoke/pkg/logging"
)

const (
	trackingPrefix    = "/api/2.0/mlflow"
	ucRegistryPrefix  = "/api/2.0/mlflow/unity-catalog"
	tracePrefix       = "/api/3.0/mlflow"
	defaultHTTPExpiry = 60 * time.Second
)

// Client talks to the MLflow surface of a Databricks workspace. The HTTP
// client is expected to carry authentication in its transport (see
// databricks.NewAuthenticatedClient).
type Client struct {
	host       string
	httpClient *http.Client

	// registryPrefix selects the model-registry surface: the workspace
	// registry by default, the Unity Catalog surface via UseUCRegistry.
	registryPrefix string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// UseUCRegistry routes model-registry calls to the Unity Catalog surface.
func UseUCRegistry() Option {
	return func(c *Client) {
		c.registryPrefix = ucRegistryPrefix
	}
}

// NewClient creates a client for the workspace at host (scheme + authority,
// no trailing slash).
func NewClient(host string, opts ...Option) *Client {
	c := &Client{
		host:           host,
		httpClient:     &http.Client{Timeout: defaultHTTPExpiry},
		registryPrefix: trackingPrefix,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Host returns the workspace host the client targets.
func (c *Client) Host() string {
	return c.host
}

// get issues a GET with query parameters and decodes the JSON response into
// out (which may be nil).
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	u := c.host + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	return c.do(req, out)
}

// post issues a POST with a JSON body and decodes the JSON response into out
// (which may be nil).
func (c *Client) post(ctx context.Context, path string, body, out interface{}) error {
	var payload io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request for %s: %w", path, err)
		}
		payload = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.host+path, payload)
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

// patch issues a PATCH with a JSON body. The UC registry surface uses PATCH
// for model-version updates.
func (c *Client) patch(ctx context.Context, path string, body, out interface{}) error {
	data, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding request for %s: %w", path, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, c.host+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("building request for %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	logging.Debug("MLflow", "%s %s", req.Method, req.URL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s %s: reading response: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode >= 400 {
		return newAPIError(resp.StatusCode, data)
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%s %s: decoding response: %w", req.Method, req.URL.Path, err)
	}
	return nil
}

// nowMillis is the timestamp format the tracking API expects.
func nowMillis() int64 {
	return time.Now().UnixMilli()
}
