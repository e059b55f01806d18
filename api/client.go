package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"

	"sichat/config"
)

const (
	defaultTimeout = 60 * time.Second
	maxBodySize    = 32 << 20
)

// Options configures a Client
type Options struct {
	BaseURL          string // backend root, "/chatbot/" is appended
	KeyValidationURL string // Storage Insights REST root used to check API keys
	SecretKey        string // base64 AES key shared with the backend
	Timeout          time.Duration
	// RequestsPerSecond caps outgoing requests. Zero means unlimited.
	RequestsPerSecond float64
	HTTPClient        *http.Client
}

// Client talks to the chatbot backend
type Client struct {
	baseURL       *url.URL
	validationURL *url.URL
	http          *http.Client
	cipher        *KeyCipher
	cipherErr     error
	limiter       *rate.Limiter
}

// NewClient creates a backend client. A missing secret key is not an error
// here; calls that need to send the API key fail instead.
func NewClient(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("backend URL is not configured")
	}
	base, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid backend URL: %w", err)
	}

	var validation *url.URL
	if opts.KeyValidationURL != "" {
		validation, err = url.Parse(opts.KeyValidationURL)
		if err != nil {
			return nil, fmt.Errorf("invalid key validation URL: %w", err)
		}
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	burst := 1
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
		burst = max(1, int(opts.RequestsPerSecond))
	}

	c := &Client{
		baseURL:       base.JoinPath("chatbot"),
		validationURL: validation,
		http:          httpClient,
		limiter:       rate.NewLimiter(limit, burst),
	}
	c.cipher, c.cipherErr = NewKeyCipher(opts.SecretKey)
	return c, nil
}

func (c *Client) encryptKey(apiKey string) (string, error) {
	if c.cipherErr != nil {
		return "", fmt.Errorf("failed to encrypt API key: %w", c.cipherErr)
	}
	enc, err := c.cipher.Encrypt(apiKey)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt API key: %w", err)
	}
	return enc, nil
}

// do sends one request and returns the body of a 200/201 response
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, payload any) ([]byte, error) {
	u := c.baseURL.JoinPath(endpoint)
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return c.send(ctx, method, u.String(), payload, nil)
}

func (c *Client) send(ctx context.Context, method, target string, payload any, header http.Header) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("failed to wait for request slot: %w", err)
	}

	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	for k, v := range header {
		req.Header[k] = v
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[API] %s %s failed: %v", method, req.URL.Path, err)
		}
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if config.DebugLog != nil {
		config.DebugLog.Printf("[API] %s %s -> %d (%d bytes, %v)", method, req.URL.Path, resp.StatusCode, len(data), time.Since(start).Round(time.Millisecond))
	}

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusCreated {
		return data, nil
	}
	return nil, newError(resp.StatusCode, data)
}
