package scanner

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/backend/pkg/circuit"
	"github.com/phishguard/backend/pkg/pool"
)

// Submitter queues a URL for asynchronous analysis. The analyzer posts
// its verdict back later; Submit never returns a verdict.
type Submitter interface {
	Submit(ctx context.Context, url string) error
}

// Config holds scanner client configuration
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type submitRequest struct {
	URL string `json:"url"`
}

// Client submits URLs to the analysis service over a pooled HTTP
// client, guarded by a circuit breaker.
type Client struct {
	config  Config
	pool    *pool.ConnectionPool
	breaker *circuit.Breaker
	logger  *zap.Logger
}

// NewClient creates a new scanner client
func NewClient(config Config, connPool *pool.ConnectionPool, breaker *circuit.Breaker, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config:  config,
		pool:    connPool,
		breaker: breaker,
		logger:  logger,
	}
}

// Submit sends a URL to the analysis service.
func (c *Client) Submit(ctx context.Context, url string) error {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}
	return c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.submit(ctx, url)
	})
}

func (c *Client) submit(ctx context.Context, url string) error {
	body, err := json.Marshal(submitRequest{URL: url})
	if err != nil {
		return fmt.Errorf("failed to marshal scan request: %w", err)
	}

	endpoint := c.config.BaseURL + "/analyze"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create scan request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.config.APIKey)

	client := c.pool.GetHTTPClient(c.config.BaseURL)
	resp, err := client.Do(req)
	if err != nil {
		c.pool.RecordFailure(c.config.BaseURL, err)
		return fmt.Errorf("scan request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("scanner returned status %d: %s", resp.StatusCode, string(respBody))
		c.pool.RecordFailure(c.config.BaseURL, err)
		return err
	}

	c.pool.RecordSuccess(c.config.BaseURL)
	c.logger.Debug("URL submitted for analysis", zap.String("url", url))
	return nil
}
