package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stripfish/stripfish/internal/infrastructure/config"
	"github.com/stripfish/stripfish/internal/infrastructure/logging"
	"github.com/stripfish/stripfish/internal/kasa"
)

// fakeStrip implements kasa.Strip against in-memory relay state. It counts
// queries and mutations so tests can assert on device traffic.
type fakeStrip struct {
	mu       sync.Mutex
	outlets  []kasa.OutletState
	queries  int
	mutates  int
	queryErr error
	setErr   error
}

func newFakeStrip(n int) *fakeStrip {
	outlets := make([]kasa.OutletState, n)
	for i := range outlets {
		outlets[i] = kasa.OutletState{
			Index: i,
			Alias: fmt.Sprintf("Outlet %d", i),
			On:    false,
		}
	}
	return &fakeStrip{outlets: outlets}
}

func (f *fakeStrip) Snapshot(_ context.Context) (*kasa.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	outlets := make([]kasa.OutletState, len(f.outlets))
	copy(outlets, f.outlets)
	return &kasa.Snapshot{
		Alias:           "Test Strip",
		Model:           "HS300(US)",
		DeviceID:        "8006TEST",
		SoftwareVersion: "1.0.10",
		Outlets:         outlets,
	}, nil
}

func (f *fakeStrip) Outlet(_ context.Context, id int) (kasa.OutletState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queries++
	if f.queryErr != nil {
		return kasa.OutletState{}, f.queryErr
	}
	if id < 0 || id >= len(f.outlets) {
		return kasa.OutletState{}, kasa.ErrOutletNotFound
	}
	return f.outlets[id], nil
}

func (f *fakeStrip) SetOutlet(_ context.Context, id int, on bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.mutates++
	if f.setErr != nil {
		return f.setErr
	}
	if id < 0 || id >= len(f.outlets) {
		return kasa.ErrOutletNotFound
	}
	f.outlets[id].On = on
	return nil
}

func (f *fakeStrip) OutletCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.outlets)
}

func (f *fakeStrip) Address() string { return "127.0.0.1" }
func (f *fakeStrip) Close() error    { return nil }

func (f *fakeStrip) counters() (queries, mutates int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries, f.mutates
}

// testServer creates a Server wired to the given strip (nil is allowed).
func testServer(t *testing.T, strip kasa.Strip) *Server {
	t.Helper()

	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")

	srv, err := New(Deps{
		Config: config.APIConfig{
			Host: "127.0.0.1",
			Port: 0,
			Timeouts: config.APITimeoutConfig{
				Read:  5,
				Write: 5,
				Idle:  5,
			},
		},
		Logger:  log,
		Strip:   strip,
		MQTT:    nil,
		Version: "test",
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}

	return srv
}

// doRequest runs one request through the full router and returns the recorder.
func doRequest(t *testing.T, srv *Server, method, path string, body *string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, path, strings.NewReader(*body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	rec := httptest.NewRecorder()
	srv.buildRouter().ServeHTTP(rec, req)
	return rec
}

// ─── Lifecycle ───────────────────────────────────────────────────────────────

func TestNewRequiresLogger(t *testing.T) {
	_, err := New(Deps{})
	if err == nil {
		t.Fatal("New() without logger should fail")
	}
}

func TestNewAllowsNilStrip(t *testing.T) {
	log := logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
	srv, err := New(Deps{Logger: log})
	if err != nil {
		t.Fatalf("New() with nil strip error: %v", err)
	}
	if srv.strip != nil {
		t.Error("strip should stay nil when not provided")
	}
}

func TestHealthCheckNotStarted(t *testing.T) {
	srv := testServer(t, newFakeStrip(6))
	if err := srv.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck() before Start() should fail")
	}
}

func TestCloseBeforeStart(t *testing.T) {
	srv := testServer(t, newFakeStrip(6))
	if err := srv.Close(); err != nil {
		t.Errorf("Close() before Start() error: %v", err)
	}
}
