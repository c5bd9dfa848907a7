package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"apigw-agent-bridge/internal/config"
	"apigw-agent-bridge/internal/runtime"
	"apigw-agent-bridge/internal/testutil"
)

func testConfig(accepted runtime.AcceptedShapes) *config.Config {
	return &config.Config{
		Environment: "test",
		Port:        "8081",
		Log:         config.LogConfig{Level: "error", Format: config.LogFormatText},
		Runtime: config.RuntimeConfig{
			Accepted:    accepted,
			ContentType: "application/json",
		},
	}
}

// TestNewContainer verifies that the container can be created successfully
func TestNewContainer(t *testing.T) {
	container, err := NewContainer(testConfig(runtime.AcceptBoth))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	if container.Router == nil {
		t.Error("Router is nil")
	}
	if container.Dispatcher == nil {
		t.Error("Dispatcher is nil")
	}
	if container.Registry == nil {
		t.Error("Registry is nil")
	}
	if container.AuthService.Enabled() {
		t.Error("AuthService should be disabled without a secret")
	}
	if got := container.Dispatcher.Accepted(); got != runtime.AcceptBoth {
		t.Errorf("Accepted = %v, want %v", got, runtime.AcceptBoth)
	}

	dev := container.DevConfig()
	if dev.Dispatcher == nil || dev.Gatherer == nil {
		t.Error("DevConfig is missing collaborators")
	}
}

func TestNewContainer_NilConfig(t *testing.T) {
	if _, err := NewContainer(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

// TestContainerRouter verifies the application routes are registered
func TestContainerRouter(t *testing.T) {
	container, err := NewContainer(testConfig(runtime.AcceptUnset))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	container.Router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("GET /health = %d, want %d", w.Code, http.StatusOK)
	}
}

func TestContainerDispatch(t *testing.T) {
	container, err := NewContainer(testConfig(runtime.AcceptAgentToolOnly))
	if err != nil {
		t.Fatalf("Failed to create container: %v", err)
	}

	resp, err := container.Dispatcher.Handle(context.Background(), testutil.AgentToolPayload(http.MethodPost, "/talk"))
	if err != nil {
		t.Fatalf("Handle returned error: %v", err)
	}
	response, ok := resp["response"].(map[string]any)
	if !ok {
		t.Fatalf("response block missing from %v", resp)
	}
	if response["httpStatusCode"] != float64(http.StatusOK) {
		t.Errorf("httpStatusCode = %v, want %d", response["httpStatusCode"], http.StatusOK)
	}

	_, err = container.Dispatcher.Handle(context.Background(), testutil.GatewayPayload(http.MethodPost, "/talk"))
	if !runtime.IsUnsupportedShape(err) {
		t.Errorf("expected unsupported shape error, got %v", err)
	}
}

func TestManager_LazyInitialization(t *testing.T) {
	loads := 0
	m := NewManager(func() (*config.Config, error) {
		loads++
		return testConfig(runtime.AcceptUnset), nil
	})

	if m.IsHealthy() {
		t.Error("manager should not be healthy before initialization")
	}

	first, err := m.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer: %v", err)
	}
	second, err := m.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer: %v", err)
	}

	if first != second {
		t.Error("expected the warm container to be reused")
	}
	if loads != 1 {
		t.Errorf("config loaded %d times, want 1", loads)
	}
	if !m.IsHealthy() {
		t.Error("manager should be healthy after use")
	}

	m.Reset()
	if m.IsHealthy() {
		t.Error("manager should not be healthy after reset")
	}
	third, err := m.GetContainer(context.Background())
	if err != nil {
		t.Fatalf("GetContainer after reset: %v", err)
	}
	if third == first {
		t.Error("expected a new container after reset")
	}
	if loads != 1 {
		t.Errorf("config reloaded after reset: %d loads", loads)
	}
}

func TestManager_InitializationRetries(t *testing.T) {
	failures := 1
	m := NewManager(func() (*config.Config, error) {
		if failures > 0 {
			failures--
			return nil, errors.New("config unavailable")
		}
		return testConfig(runtime.AcceptUnset), nil
	})

	if _, err := m.GetContainer(context.Background()); err == nil {
		t.Fatal("expected first initialization to fail")
	}
	if _, err := m.GetContainer(context.Background()); err != nil {
		t.Fatalf("expected retry to succeed: %v", err)
	}
}

func TestManager_Initialize(t *testing.T) {
	m := NewManager(nil)
	if _, err := m.GetContainer(context.Background()); err == nil {
		t.Fatal("expected error without configuration")
	}

	if err := m.Initialize(testConfig(runtime.AcceptUnset)); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if err := m.Initialize(nil); err != nil {
		t.Errorf("second Initialize should be a no-op, got %v", err)
	}

	resp, err := m.Handle(context.Background(), map[string]any{
		"httpMethod": http.MethodGet,
		"path":       "/health",
	})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if resp["statusCode"] != float64(http.StatusOK) {
		t.Errorf("statusCode = %v, want %d", resp["statusCode"], http.StatusOK)
	}
}

func TestManager_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	m := NewManager(func() (*config.Config, error) { return testConfig(runtime.AcceptUnset), nil })
	if _, err := m.Handle(ctx, map[string]any{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
