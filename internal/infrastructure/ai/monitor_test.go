package ai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestMonitorCachesWithinTTL(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	monitor := NewMonitor(server.URL, time.Minute)
	for i := 0; i < 5; i++ {
		if !monitor.Available(context.Background()) {
			t.Fatal("expected available")
		}
	}
	if got := probes.Load(); got != 1 {
		t.Errorf("expected a single probe within the TTL, got %d", got)
	}
}

func TestMonitorCachesFailures(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	monitor := NewMonitor(server.URL, time.Minute)
	for i := 0; i < 3; i++ {
		if monitor.Available(context.Background()) {
			t.Fatal("expected unavailable")
		}
	}
	if got := probes.Load(); got != 1 {
		t.Errorf("failures should be cached like successes, got %d probes", got)
	}
}

func TestMonitorReprobesAfterTTL(t *testing.T) {
	var probes atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		probes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	monitor := NewMonitor(server.URL, time.Minute)
	current := time.Now()
	monitor.now = func() time.Time { return current }

	monitor.Available(context.Background())
	current = current.Add(2 * time.Minute)
	monitor.Available(context.Background())

	if got := probes.Load(); got != 2 {
		t.Errorf("expected re-probe after TTL expiry, got %d probes", got)
	}
}

func TestMonitorCancelledCallerNotCached(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	monitor := NewMonitor(server.URL, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if monitor.Available(ctx) {
		t.Error("cancelled caller must see unavailable")
	}
	if !monitor.Available(context.Background()) {
		t.Error("healthy engine must report available right after a cancelled caller")
	}
}

func TestMonitorConnectionRefused(t *testing.T) {
	monitor := NewMonitor("http://127.0.0.1:1", time.Minute)
	if monitor.Available(context.Background()) {
		t.Error("expected unavailable on connection failure")
	}
}
