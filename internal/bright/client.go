package bright

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultTimeout = 5 * time.Second

// Config holds the CMDaemon connection parameters.
type Config struct {
	Host     string
	Port     int
	Protocol string // http or https

	// Basic auth credentials. Preferred over the client certificate when
	// both are configured.
	Username string
	Password string

	// Client certificate auth, used only without basic auth credentials.
	CertFile string
	KeyFile  string

	VerifyTLS bool
	Timeout   time.Duration
}

// Client is the low-level CMDaemon HTTP client shared by both protocol
// versions. It is safe for concurrent use.
type Client struct {
	baseURL    string
	username   string
	password   string
	timeout    time.Duration
	httpClient *http.Client
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// NewClient creates a CMDaemon client from connection parameters.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	protocol := cfg.Protocol
	if protocol == "" {
		protocol = "https"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	tlsConfig := &tls.Config{InsecureSkipVerify: !cfg.VerifyTLS}
	if cfg.Username == "" && cfg.CertFile != "" {
		cert, err := tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("load client certificate: %w", err)
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}

	client := &Client{
		baseURL:  fmt.Sprintf("%s://%s:%d", protocol, cfg.Host, cfg.Port),
		username: cfg.Username,
		password: cfg.Password,
		timeout:  timeout,
		httpClient: &http.Client{
			Transport: &http.Transport{TLSClientConfig: tlsConfig},
		},
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// BaseURL returns the appliance endpoint the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// rpcRequest is the CMDaemon RPC-over-POST envelope. Calls carry either
// a single arg or an args array, never both.
type rpcRequest struct {
	Service string      `json:"service"`
	Call    string      `json:"call"`
	Arg     interface{} `json:"arg,omitempty"`
	Args    interface{} `json:"args,omitempty"`
}

// call issues an RPC-style POST to the /json endpoint and decodes the
// response into out.
func (c *Client) call(ctx context.Context, req rpcRequest, out interface{}) error {
	return c.do(ctx, http.MethodPost, c.baseURL+"/json", req, out)
}

// get issues a GET against path with query parameters and decodes the
// response into out.
func (c *Client) get(ctx context.Context, path string, query url.Values, out interface{}) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, endpoint, nil, out)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body interface{}, out interface{}) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.username != "" {
		req.SetBasicAuth(c.username, c.password)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("cmdaemon request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("cmdaemon: status %d", resp.StatusCode)
	}

	decoder := json.NewDecoder(resp.Body)
	decoder.UseNumber()
	if err := decoder.Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Version asks CMDaemon for its advertised version string.
func (c *Client) Version(ctx context.Context) (string, error) {
	var out struct {
		CMVersion string `json:"cmVersion"`
	}
	if err := c.call(ctx, rpcRequest{Service: "cmmain", Call: "getVersion"}, &out); err != nil {
		return "", fmt.Errorf("version probe: %w", err)
	}
	if out.CMVersion == "" {
		return "", fmt.Errorf("version probe: response missing cmVersion")
	}
	return out.CMVersion, nil
}
