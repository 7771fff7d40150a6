package nlp

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func noSleepPolicy(attempts int) RetryPolicy {
	return RetryPolicy{Attempts: attempts, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond, Sleeper: func(time.Duration) {}}
}

func TestClientTag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/pos" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var req posRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if req.Text != "Kumain ako" {
			t.Fatalf("unexpected text %q", req.Text)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"tokens": []map[string]string{
				{"text": "Kumain", "pos": "verb", "lemma": "kain"},
				{"text": "ako", "tag": "PRON"},
			},
		})
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL + "/"})
	result, err := client.Tag(context.Background(), "Kumain ako")
	if err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	if result.Source != SourceService {
		t.Fatalf("expected service source, got %s", result.Source)
	}
	if len(result.Tokens) != 2 || result.Tokens[0].POS != TagVerb || result.Tokens[1].POS != TagPron {
		t.Fatalf("unexpected tokens %+v", result.Tokens)
	}
}

func TestClientTagEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"tokens":[]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	if _, err := client.Tag(context.Background(), "ako"); !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
}

func TestClientVerifyClampsScore(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req verifyRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Expected != "kumain ako" {
			t.Fatalf("unexpected expected %q", req.Expected)
		}
		_, _ = w.Write([]byte(`{"valid":true,"score":1.7,"feedback":" ok "}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL})
	result, err := client.Verify(context.Background(), "Kumain ako", "kumain ako")
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if !result.Valid || result.Score != 1 || result.Feedback != "ok" {
		t.Fatalf("unexpected verification %+v", result)
	}
}

func TestClientRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"tokens":[{"text":"oo","pos":"INTJ"}]}`))
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, WithRetryPolicy(noSleepPolicy(3)))
	if _, err := client.Tag(context.Background(), "oo"); err != nil {
		t.Fatalf("Tag returned error: %v", err)
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 calls, got %d", calls.Load())
	}
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Error(w, "bad input", http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(ClientConfig{BaseURL: server.URL}, WithRetryPolicy(noSleepPolicy(3)))
	_, err := client.Tag(context.Background(), "oo")
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400 status error, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestClientHealthCheck(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	if err := NewClient(ClientConfig{BaseURL: server.URL}).HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck returned error: %v", err)
	}
	if err := NewClient(ClientConfig{BaseURL: server.URL + "/missing"}).HealthCheck(context.Background()); err == nil {
		t.Fatal("expected health check against wrong root to fail")
	}
}

func TestRetryPolicyHonoursRetryAfter(t *testing.T) {
	var slept []time.Duration
	policy := RetryPolicy{
		Attempts:  2,
		BaseDelay: time.Second,
		MaxDelay:  10 * time.Second,
		Sleeper:   func(d time.Duration) { slept = append(slept, d) },
	}
	attempt := 0
	err := policy.Do(context.Background(), "test", func(context.Context) error {
		attempt++
		if attempt == 1 {
			return &StatusError{StatusCode: http.StatusTooManyRequests, RetryAfter: 3 * time.Second}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if len(slept) != 1 || slept[0] != 3*time.Second {
		t.Fatalf("expected one 3s sleep, got %v", slept)
	}
}

func TestRetryPolicyBackoffIsCapped(t *testing.T) {
	policy := RetryPolicy{BaseDelay: time.Second, MaxDelay: 5 * time.Second}
	want := []time.Duration{time.Second, 2 * time.Second, 4 * time.Second, 5 * time.Second, 5 * time.Second}
	for i, w := range want {
		if got := policy.backoffDelay(i + 1); got != w {
			t.Fatalf("attempt %d: got %s, want %s", i+1, got, w)
		}
	}
}
