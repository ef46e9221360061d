package pool

import (
	"crypto/tls"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// PoolConfig defines connection pool configuration
type PoolConfig struct {
	ConnectionTimeout   time.Duration `json:"connection_timeout"`
	RequestTimeout      time.Duration `json:"request_timeout"`
	IdleTimeout         time.Duration `json:"idle_timeout"`
	MaxIdleConns        int           `json:"max_idle_conns"`
	MaxIdleConnsPerHost int           `json:"max_idle_conns_per_host"`
}

// DefaultPoolConfig returns sensible defaults
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		ConnectionTimeout:   5 * time.Second,
		RequestTimeout:      30 * time.Second,
		IdleTimeout:         90 * time.Second,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
	}
}

// BackendHealth tracks the recent behavior of one upstream host.
type BackendHealth struct {
	Address      string
	IsHealthy    bool
	LastCheck    time.Time
	LastError    error
	FailureCount int
	SuccessCount int
}

// ConnectionPool hands out shared HTTP clients per upstream host so
// the scanner and push gateway reuse keep-alive connections.
type ConnectionPool struct {
	mu          sync.RWMutex
	httpClients map[string]*http.Client
	healthStats map[string]*BackendHealth
	config      PoolConfig
	logger      *zap.Logger
}

// NewConnectionPool creates a new connection pool
func NewConnectionPool(config PoolConfig, logger *zap.Logger) *ConnectionPool {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &ConnectionPool{
		httpClients: make(map[string]*http.Client),
		healthStats: make(map[string]*BackendHealth),
		config:      config,
		logger:      logger,
	}
}

// GetHTTPClient returns the shared HTTP client for the given address,
// creating it on first use.
func (p *ConnectionPool) GetHTTPClient(address string) *http.Client {
	p.mu.RLock()
	client, exists := p.httpClients[address]
	p.mu.RUnlock()

	if exists {
		return client
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	// Double check after acquiring write lock
	if client, exists = p.httpClients[address]; exists {
		return client
	}

	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   p.config.ConnectionTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          p.config.MaxIdleConns,
		MaxIdleConnsPerHost:   p.config.MaxIdleConnsPerHost,
		IdleConnTimeout:       p.config.IdleTimeout,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ForceAttemptHTTP2:     true,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	}

	client = &http.Client{
		Transport: transport,
		Timeout:   p.config.RequestTimeout,
	}

	p.httpClients[address] = client
	p.healthStats[address] = &BackendHealth{
		Address:   address,
		IsHealthy: true,
		LastCheck: time.Now(),
	}

	p.logger.Debug("Created HTTP client for upstream",
		zap.String("address", address),
	)

	return client
}

// RecordSuccess marks an upstream as healthy after a successful call.
func (p *ConnectionPool) RecordSuccess(address string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	health, exists := p.healthStats[address]
	if !exists {
		return
	}

	health.IsHealthy = true
	health.LastCheck = time.Now()
	health.LastError = nil
	health.SuccessCount++
	health.FailureCount = 0
}

// RecordFailure records a failed call against an upstream.
func (p *ConnectionPool) RecordFailure(address string, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	health, exists := p.healthStats[address]
	if !exists {
		health = &BackendHealth{Address: address}
		p.healthStats[address] = health
	}

	health.LastCheck = time.Now()
	health.LastError = err
	health.FailureCount++

	if health.FailureCount >= 3 {
		health.IsHealthy = false
	}
}

// IsHealthy reports whether an upstream is currently considered healthy.
func (p *ConnectionPool) IsHealthy(address string) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()

	health, exists := p.healthStats[address]
	if !exists {
		return true
	}
	return health.IsHealthy
}

// GetHealthStats returns a snapshot of upstream health.
func (p *ConnectionPool) GetHealthStats() map[string]*BackendHealth {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make(map[string]*BackendHealth, len(p.healthStats))
	for addr, health := range p.healthStats {
		copied := *health
		stats[addr] = &copied
	}
	return stats
}

// Stats returns pool statistics
func (p *ConnectionPool) Stats() map[string]interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()

	return map[string]interface{}{
		"http_clients": len(p.httpClients),
	}
}

// CloseAllConnections shuts down idle connections for every client.
func (p *ConnectionPool) CloseAllConnections() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, client := range p.httpClients {
		if transport, ok := client.Transport.(*http.Transport); ok {
			transport.CloseIdleConnections()
		}
	}

	p.httpClients = make(map[string]*http.Client)
	p.healthStats = make(map[string]*BackendHealth)
	return nil
}
