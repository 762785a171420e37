package ai

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/doeshing/termsense/internal/domain"
	"github.com/doeshing/termsense/internal/ports"
)

// Monitor caches a short health probe against the local inference endpoint.
// Failures are cached exactly like successes so a down engine is not probed
// on every keystroke.
type Monitor struct {
	endpoint string
	client   *http.Client
	ttl      time.Duration

	mu        sync.Mutex
	available bool
	expiresAt time.Time

	now func() time.Time
}

// NewMonitor builds a monitor for the given local endpoint base URL.
func NewMonitor(endpoint string, ttl time.Duration) *Monitor {
	if ttl <= 0 {
		ttl = domain.DefaultAvailabilityTTL
	}
	return &Monitor{
		endpoint: endpoint,
		client:   &http.Client{Timeout: domain.DefaultProbeTimeout},
		ttl:      ttl,
		now:      time.Now,
	}
}

// Available implements ports.AvailabilityChecker. Within the TTL window the
// cached result is returned without a network call.
func (m *Monitor) Available(ctx context.Context) bool {
	m.mu.Lock()
	if m.now().Before(m.expiresAt) {
		cached := m.available
		m.mu.Unlock()
		return cached
	}
	m.mu.Unlock()

	available := m.probe(ctx)

	// Only genuine probe verdicts enter the cache. A probe aborted by
	// caller cancellation says nothing about the engine.
	if ctx.Err() != nil {
		return false
	}

	m.mu.Lock()
	m.available = available
	m.expiresAt = m.now().Add(m.ttl)
	m.mu.Unlock()
	return available
}

func (m *Monitor) probe(ctx context.Context) bool {
	pctx, cancel := context.WithTimeout(ctx, domain.DefaultProbeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(pctx, http.MethodGet, probeEndpoint(m.endpoint), nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func probeEndpoint(endpoint string) string {
	if endpoint == "" {
		endpoint = "http://localhost:11434"
	}
	if strings.Contains(endpoint, "/api/") {
		return endpoint
	}
	return strings.TrimSuffix(endpoint, "/") + "/api/tags"
}

var _ ports.AvailabilityChecker = (*Monitor)(nil)
