package nlp

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"salita/internal/logging"
	"salita/internal/services"
	"salita/internal/testsupport"
)

type recorded struct {
	operation string
	source    Source
}

type fakeRecorder struct {
	mu     sync.Mutex
	events []recorded
}

func (f *fakeRecorder) ObserveNLP(operation string, source Source) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, recorded{operation, source})
}

func TestProxyFallsBackWhenDisabled(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	rec := &fakeRecorder{}
	proxy := NewProxy(cfg, logging.NewNop(), WithRecorder(rec))

	if proxy.ServiceEnabled() {
		t.Fatal("expected service disabled in test config")
	}
	result, err := proxy.Tag(context.Background(), "Kumain ako.")
	if err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	if result.Source != SourceFallback || len(result.Tokens) != 3 {
		t.Fatalf("unexpected result %+v", result)
	}
	if len(rec.events) != 1 || rec.events[0] != (recorded{"pos", SourceFallback}) {
		t.Fatalf("unexpected recorded events %+v", rec.events)
	}
	if err := proxy.HealthCheck(context.Background()); !errors.Is(err, services.ErrUnavailable) {
		t.Fatalf("expected unavailable health, got %v", err)
	}
}

func TestProxyUsesServiceWhenHealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/verify":
			_, _ = w.Write([]byte(`{"valid":true,"score":0.9,"feedback":"ayos"}`))
		default:
			_, _ = w.Write([]byte(`{"status":"ok"}`))
		}
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNLPService(server.URL))
	rec := &fakeRecorder{}
	proxy := NewProxy(cfg, logging.NewNop(), WithRecorder(rec))

	result, err := proxy.Verify(context.Background(), "Kumain ako.", "")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if result.Source != SourceService || result.Score != 0.9 {
		t.Fatalf("unexpected result %+v", result)
	}
	if rec.events[0] != (recorded{"verify", SourceService}) {
		t.Fatalf("unexpected recorded events %+v", rec.events)
	}
	if err := proxy.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
}

func TestProxyFallsBackOnServiceError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	cfg := testsupport.NewConfig(t, testsupport.WithNLPService(server.URL))
	client := NewClient(ClientConfig{BaseURL: server.URL}, WithRetryPolicy(noSleepPolicy(2)))
	proxy := NewProxy(cfg, logging.NewNop(), WithClient(client))

	result, err := proxy.Tag(context.Background(), "Maganda ang bahay")
	if err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	if result.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %s", result.Source)
	}
	if result.Tokens[0].POS != TagAdj {
		t.Fatalf("unexpected fallback tags %+v", result.Tokens)
	}
}

func TestProxyValidatesInput(t *testing.T) {
	proxy := NewProxy(testsupport.NewConfig(t), logging.NewNop())

	if _, err := proxy.Tag(context.Background(), "   "); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for blank text, got %v", err)
	}
	long := strings.Repeat("a", maxInputRunes+1)
	if _, err := proxy.Verify(context.Background(), long, ""); !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error for long text, got %v", err)
	}
}
