package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockLogger implements the Logger interface for testing
type MockLogger struct {
	mu   sync.Mutex
	logs []LogEntry
}

type LogEntry struct {
	Level   string
	Message string
	Fields  map[string]interface{}
}

func (m *MockLogger) add(level, msg string, fields map[string]interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Debug(msg string, fields map[string]interface{}) { m.add("DEBUG", msg, fields) }
func (m *MockLogger) Info(msg string, fields map[string]interface{})  { m.add("INFO", msg, fields) }
func (m *MockLogger) Warn(msg string, fields map[string]interface{})  { m.add("WARN", msg, fields) }
func (m *MockLogger) Error(msg string, fields map[string]interface{}) { m.add("ERROR", msg, fields) }

func TestRequestLoggingMiddleware_LogsStartAndCompletion(t *testing.T) {
	logger := &MockLogger{}
	handler := RequestLoggingMiddleware(logger)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/update?x=1", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Len(t, logger.logs, 2)
	assert.Equal(t, "DEBUG", logger.logs[0].Level)
	assert.Equal(t, "Request started", logger.logs[0].Message)
	assert.Equal(t, "/update", logger.logs[0].Fields["path"])

	done := logger.logs[1]
	assert.Equal(t, "INFO", done.Level)
	assert.Equal(t, "Request completed", done.Message)
	assert.Equal(t, http.MethodPost, done.Fields["method"])
	assert.Equal(t, http.StatusOK, done.Fields["status"])
	assert.IsType(t, int64(0), done.Fields["duration_ms"])
}

func TestRequestLoggingMiddleware_ServerErrorsLogAtErrorLevel(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusNotFound, "INFO"},
		{http.StatusConflict, "INFO"},
		{http.StatusInternalServerError, "ERROR"},
		{http.StatusServiceUnavailable, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			logger := &MockLogger{}
			handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			}))

			handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/status", nil))

			require.Len(t, logger.logs, 2)
			assert.Equal(t, tt.level, logger.logs[1].Level)
			assert.Equal(t, tt.status, logger.logs[1].Fields["status"])
		})
	}
}

func TestRequestLoggingMiddleware_RequestID(t *testing.T) {
	logger := &MockLogger{}
	var seen string
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = RequestID(r.Context())
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get("X-Request-ID"))
	assert.Equal(t, seen, logger.logs[1].Fields["request_id"])

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "upstream-id")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "upstream-id", seen)
	assert.Equal(t, "upstream-id", rec.Header().Get("X-Request-ID"))
}

func TestRequestLoggingMiddleware_MeasuresDuration(t *testing.T) {
	logger := &MockLogger{}
	handler := RequestLoggingMiddleware(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(30 * time.Millisecond)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/log", nil))

	assert.GreaterOrEqual(t, logger.logs[1].Fields["duration_ms"].(int64), int64(30))
}

func TestRequestID_EmptyOutsideMiddleware(t *testing.T) {
	assert.Empty(t, RequestID(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	rw.WriteHeader(http.StatusAccepted)
	rw.WriteHeader(http.StatusBadRequest)

	assert.Equal(t, http.StatusAccepted, rw.statusCode)
	assert.True(t, rw.written)
}

func TestResponseWriter_WriteImpliesOK(t *testing.T) {
	rw := &responseWriter{ResponseWriter: httptest.NewRecorder(), statusCode: http.StatusOK}

	_, err := rw.Write([]byte("News,#genre#"))

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rw.statusCode)
	assert.True(t, rw.written)
}
