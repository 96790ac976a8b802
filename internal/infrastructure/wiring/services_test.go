package wiring

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/felixgeelhaar/daybrief/internal/infrastructure/config"
	"github.com/felixgeelhaar/daybrief/pkg/application"
	"github.com/felixgeelhaar/daybrief/pkg/domain/planning"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
}

func TestBuildAppServices_RuleBasedByDefault(t *testing.T) {
	services, err := BuildAppServices(config.Default(), quietLogger())
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}
	if services.Provider != nil {
		t.Errorf("expected no provider without a credential, got %s", services.Provider.ID())
	}
	if services.Insights.BackendEnabled() {
		t.Error("backend should be disabled")
	}
	if services.Store.Count() != 0 {
		t.Errorf("expected an empty store, got %d", services.Store.Count())
	}
}

func TestBuildAppServices_MockBackend(t *testing.T) {
	cfg := config.Default()
	cfg.AI.Provider = "mock"
	cfg.AI.Model = "canned"

	services, err := BuildAppServices(cfg, quietLogger())
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}
	if services.Provider == nil || services.Provider.ID() != "mock:canned" {
		t.Fatalf("expected mock provider, got %v", services.Provider)
	}
	if !services.Insights.BackendEnabled() {
		t.Error("backend should be enabled")
	}
}

func TestBuildAppServices_OpenAIWithKey(t *testing.T) {
	cfg := config.Default()
	cfg.AI.APIKey = "sk-test"

	var buf bytes.Buffer
	services, err := BuildAppServices(cfg, slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}
	if services.Provider == nil || services.Provider.ID() != "openai:gpt-4o" {
		t.Fatalf("expected openai provider, got %v", services.Provider)
	}
	if !strings.Contains(buf.String(), "reasoning backend enabled") {
		t.Errorf("expected startup log, got %q", buf.String())
	}
}

func TestBuildAppServices_SeedsDemo(t *testing.T) {
	cfg := config.Default()
	cfg.Demo.Seed = true
	now := time.Date(2025, 6, 2, 8, 0, 0, 0, time.UTC)

	services, err := BuildAppServicesWithClock(cfg, quietLogger(), planning.FixedClock{T: now})
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}
	if services.Store.Count() != 3 {
		t.Errorf("expected 3 demo items, got %d", services.Store.Count())
	}
}

func TestBuildAppServices_NilConfig(t *testing.T) {
	services, err := BuildAppServices(nil, nil)
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}
	if services.Config.Server.Addr != ":8000" {
		t.Errorf("expected default config, got %+v", services.Config.Server)
	}
}

func TestBuildAppServices_WebhooksReceiveItemChanges(t *testing.T) {
	var received atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	cfg := config.Default()
	cfg.Webhooks.Endpoints = []config.WebhookEndpoint{{Name: "test", URL: server.URL}}

	services, err := BuildAppServices(cfg, quietLogger())
	if err != nil {
		t.Fatalf("BuildAppServices: %v", err)
	}
	if services.Notifier == nil {
		t.Fatal("expected a notifier")
	}

	if _, err := services.Items.Create(application.ItemInput{Title: "Ship release"}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	services.Notifier.Wait()

	if received.Load() != 1 {
		t.Errorf("expected 1 webhook delivery, got %d", received.Load())
	}
}

func TestLoadNotifier_NoEndpoints(t *testing.T) {
	if n := LoadNotifier(config.WebhooksConfig{}, quietLogger()); n != nil {
		t.Error("expected nil notifier without endpoints")
	}
}
