package push

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/phishguard/backend/pkg/circuit"
	"github.com/phishguard/backend/pkg/pool"
)

// ChunkSize is the maximum number of messages per Expo send request.
const ChunkSize = 100

// DeviceNotRegistered is the ticket detail Expo returns for tokens
// that no longer map to an installed app.
const DeviceNotRegistered = "DeviceNotRegistered"

// Message is one push notification addressed to a single Expo token.
type Message struct {
	To    string                 `json:"to"`
	Title string                 `json:"title,omitempty"`
	Body  string                 `json:"body,omitempty"`
	Data  map[string]interface{} `json:"data,omitempty"`
	Sound string                 `json:"sound,omitempty"`
}

// Ticket is the per-message receipt from an Expo send call.
type Ticket struct {
	Status  string `json:"status"`
	ID      string `json:"id,omitempty"`
	Message string `json:"message,omitempty"`
	Details struct {
		Error string `json:"error,omitempty"`
	} `json:"details,omitempty"`
}

// IsOK reports whether the message was accepted by Expo.
func (t Ticket) IsOK() bool {
	return t.Status == "ok"
}

// IsDeviceNotRegistered reports whether the target token is dead and
// should be removed from storage.
func (t Ticket) IsDeviceNotRegistered() bool {
	return t.Status == "error" && t.Details.Error == DeviceNotRegistered
}

// Transport sends a batch of push messages and returns one ticket per
// message, in order. A non-nil error means the batch as a whole failed.
type Transport interface {
	Send(ctx context.Context, messages []Message) ([]Ticket, error)
}

// IsExpoPushToken reports whether a stored device token looks like an
// Expo push token. Raw FCM/APNs tokens are filtered out before sending.
func IsExpoPushToken(token string) bool {
	if !strings.HasSuffix(token, "]") {
		return false
	}
	return strings.HasPrefix(token, "ExponentPushToken[") || strings.HasPrefix(token, "ExpoPushToken[")
}

// Chunk splits messages into batches no larger than ChunkSize.
func Chunk(messages []Message) [][]Message {
	if len(messages) == 0 {
		return nil
	}

	chunks := make([][]Message, 0, (len(messages)+ChunkSize-1)/ChunkSize)
	for len(messages) > ChunkSize {
		chunks = append(chunks, messages[:ChunkSize])
		messages = messages[ChunkSize:]
	}
	return append(chunks, messages)
}

// Config holds Expo client configuration
type Config struct {
	BaseURL     string
	AccessToken string
	Timeout     time.Duration
}

type sendResponse struct {
	Data   []Ticket `json:"data"`
	Errors []struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
}

// ExpoClient talks to the Expo push API over a pooled HTTP client,
// guarded by a circuit breaker.
type ExpoClient struct {
	config  Config
	pool    *pool.ConnectionPool
	breaker *circuit.Breaker
	logger  *zap.Logger
}

// NewExpoClient creates a new Expo push client
func NewExpoClient(config Config, connPool *pool.ConnectionPool, breaker *circuit.Breaker, logger *zap.Logger) *ExpoClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpoClient{
		config:  config,
		pool:    connPool,
		breaker: breaker,
		logger:  logger,
	}
}

// Send posts one batch of messages to Expo. Callers chunk with Chunk
// before calling; batches over ChunkSize are rejected by Expo.
func (c *ExpoClient) Send(ctx context.Context, messages []Message) ([]Ticket, error) {
	if len(messages) == 0 {
		return nil, nil
	}

	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	var tickets []Ticket
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		var sendErr error
		tickets, sendErr = c.send(ctx, messages)
		return sendErr
	})
	if err != nil {
		return nil, err
	}
	return tickets, nil
}

func (c *ExpoClient) send(ctx context.Context, messages []Message) ([]Ticket, error) {
	body, err := json.Marshal(messages)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal push messages: %w", err)
	}

	url := c.config.BaseURL + "/push/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create push request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.config.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.AccessToken)
	}

	client := c.pool.GetHTTPClient(c.config.BaseURL)
	resp, err := client.Do(req)
	if err != nil {
		c.pool.RecordFailure(c.config.BaseURL, err)
		return nil, fmt.Errorf("push request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.pool.RecordFailure(c.config.BaseURL, err)
		return nil, fmt.Errorf("failed to read push response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(respBody))
		c.pool.RecordFailure(c.config.BaseURL, err)
		return nil, err
	}

	var parsed sendResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse push response: %w", err)
	}

	if len(parsed.Errors) > 0 {
		err := fmt.Errorf("push gateway rejected batch: %s (%s)", parsed.Errors[0].Message, parsed.Errors[0].Code)
		c.pool.RecordFailure(c.config.BaseURL, err)
		return nil, err
	}

	c.pool.RecordSuccess(c.config.BaseURL)
	c.logger.Debug("Push batch sent",
		zap.Int("messages", len(messages)),
		zap.Int("tickets", len(parsed.Data)),
	)

	return parsed.Data, nil
}
