package sources

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"channel-catalog/core/interfaces"
	"channel-catalog/infrastructure/http/standard"
)

type mockLogger struct {
	mu    sync.Mutex
	warns []string
}

func (m *mockLogger) Debug(string, map[string]interface{}) {}
func (m *mockLogger) Info(string, map[string]interface{})  {}
func (m *mockLogger) Error(string, map[string]interface{}) {}
func (m *mockLogger) Warn(msg string, _ map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.warns = append(m.warns, msg)
}

func (m *mockLogger) warnCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.warns)
}

type recordingSink struct {
	mu       sync.Mutex
	messages []string
	percents []int
}

func (r *recordingSink) Report(message string, percent int, _ bool, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
	r.percents = append(r.percents, percent)
}

func testDeps(logger interfaces.Logger) interfaces.Dependencies {
	return interfaces.Dependencies{
		HTTPClient: standard.NewStandardHTTPClient(standard.Options{Timeout: 2 * time.Second, MaxAttempts: 1}),
		Logger:     logger,
	}
}

// serve registers fixed bodies by path; unknown paths answer 404
func serve(t *testing.T, bodies map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := bodies[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}
