package discord

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"command-registrar/internal/config"
	"command-registrar/internal/core/domain"

	"github.com/bwmarrin/discordgo"
)

var globalTarget = domain.Target{AppID: "100"}

// redirectTransport sends every request to a local test server.
type redirectTransport struct {
	target *url.URL
}

func (rt redirectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	out := req.Clone(req.Context())
	out.URL.Scheme = rt.target.Scheme
	out.URL.Host = rt.target.Host
	out.Host = rt.target.Host
	return http.DefaultTransport.RoundTrip(out)
}

func newTestAdapter(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	target, err := url.Parse(srv.URL)
	if err != nil {
		t.Fatalf("parse server url: %v", err)
	}

	session, err := NewSession(&config.Config{Token: "test-token", RequestTimeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	session.Client.Transport = NewMetricsRoundTripper(redirectTransport{target: target})

	return NewAdapter(session)
}

func TestNewSession_Configuration(t *testing.T) {
	cfg := &config.Config{Token: "MTk.test.token", RequestTimeout: 7 * time.Second}

	session, err := NewSession(cfg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if session.Token != "Bot MTk.test.token" {
		t.Errorf("expected bot token prefix, got %q", session.Token)
	}
	if session.MaxRestRetries != 0 {
		t.Errorf("expected no REST retries, got %d", session.MaxRestRetries)
	}
	if session.ShouldRetryOnRateLimit {
		t.Error("expected rate limited requests not to be retried")
	}
	if session.Client.Timeout != 7*time.Second {
		t.Errorf("expected client timeout 7s, got %v", session.Client.Timeout)
	}
	if _, ok := session.Client.Transport.(*MetricsRoundTripper); !ok {
		t.Errorf("expected metrics transport, got %T", session.Client.Transport)
	}
}

func TestSession_BulkOverwrite_SendsPUT(t *testing.T) {
	var gotMethod, gotPath, gotAuth string
	var gotBody []map[string]any

	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotAuth = r.Method, r.URL.Path, r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("request body is not a JSON array: %s", body)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id": "1", "name": "ping", "description": "Pong", "type": 1}]`))
	})

	cmds := []*discordgo.ApplicationCommand{{Name: "ping", Description: "Pong", Type: discordgo.ChatApplicationCommand}}
	registered, err := adapter.BulkOverwrite(context.Background(), guildTarget, cmds)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPut {
		t.Errorf("expected PUT, got %s", gotMethod)
	}
	if !strings.HasSuffix(gotPath, "/applications/100/guilds/200/commands") {
		t.Errorf("unexpected path %s", gotPath)
	}
	if gotAuth != "Bot test-token" {
		t.Errorf("unexpected Authorization header %q", gotAuth)
	}
	if len(gotBody) != 1 || gotBody[0]["name"] != "ping" {
		t.Errorf("unexpected body %+v", gotBody)
	}
	if len(registered) != 1 || registered[0].ID != "1" {
		t.Errorf("unexpected response %+v", registered)
	}
}

func TestSession_BulkOverwrite_EmptyBatchIsArray(t *testing.T) {
	var gotBody string
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		gotBody = strings.TrimSpace(string(body))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	if _, err := adapter.BulkOverwrite(context.Background(), globalTarget, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotBody != "[]" {
		t.Errorf("expected empty JSON array, got %q", gotBody)
	}
}

func TestSession_Create_GlobalPOST(t *testing.T) {
	var gotMethod, gotPath string
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id": "9", "name": "ping", "description": "Pong"}`))
	})

	created, err := adapter.Create(context.Background(), globalTarget, &discordgo.ApplicationCommand{Name: "ping", Description: "Pong"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("expected POST, got %s", gotMethod)
	}
	if !strings.HasSuffix(gotPath, "/applications/100/commands") {
		t.Errorf("unexpected path %s", gotPath)
	}
	if created.ID != "9" {
		t.Errorf("expected created id 9, got %q", created.ID)
	}
}

func TestSession_ErrorCodeBecomesAPIError(t *testing.T) {
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code": 50035, "message": "Invalid Form Body"}`))
	})

	_, err := adapter.BulkOverwrite(context.Background(), guildTarget, []*discordgo.ApplicationCommand{{Name: "Bad"}})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", apiErr.Status)
	}
	if apiErr.Code != 50035 {
		t.Errorf("expected code 50035, got %d", apiErr.Code)
	}
	if !strings.Contains(string(apiErr.Body), "Invalid Form Body") {
		t.Errorf("expected raw body to be kept, got %s", apiErr.Body)
	}
}

func TestSession_RateLimitHaltsWithoutRetry(t *testing.T) {
	calls := 0
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"message": "Max number of daily application command creates has been reached (200)", "retry_after": 0.3, "global": false, "code": 30034}`))
			return
		}
		w.Write([]byte(`{"id": "9", "name": "ping", "description": "Pong"}`))
	})

	_, err := adapter.Create(context.Background(), guildTarget, &discordgo.ApplicationCommand{Name: "ping", Description: "Pong"})

	if calls != 1 {
		t.Errorf("expected a single request, got %d", calls)
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.Status)
	}
	if apiErr.Code != 30034 {
		t.Errorf("expected code 30034, got %d", apiErr.Code)
	}
	if !strings.Contains(apiErr.Message, "daily application command creates") {
		t.Errorf("unexpected message %q", apiErr.Message)
	}
	if apiErr.RetryAfter <= 0 {
		t.Errorf("expected retry_after to be kept, got %v", apiErr.RetryAfter)
	}
	if !strings.Contains(string(apiErr.Body), "30034") {
		t.Errorf("expected raw body to be kept, got %s", apiErr.Body)
	}
}

func TestSession_Delete(t *testing.T) {
	var gotMethod, gotPath string
	adapter := newTestAdapter(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	})

	if err := adapter.Delete(context.Background(), guildTarget, "55"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("expected DELETE, got %s", gotMethod)
	}
	if !strings.HasSuffix(gotPath, "/applications/100/guilds/200/commands/55") {
		t.Errorf("unexpected path %s", gotPath)
	}
}
