package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/rides-dashboard-go/internal/auth"
	"github.com/jengzang/rides-dashboard-go/pkg/logger"
	"github.com/jengzang/rides-dashboard-go/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func engine(handlers ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(handlers...)
	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{"subject": c.GetString(SubjectKey)})
	})
	return r
}

func get(r http.Handler, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	for k, v := range header {
		req.Header[http.CanonicalHeaderKey(k)] = v
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func TestRateLimiterAllow(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)}
	rl := newRateLimiter(2, time.Minute, clock.Now)
	defer rl.Stop()

	ok, _ := rl.Allow("10.0.0.1")
	assert.True(t, ok)
	clock.Advance(10 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok)

	ok, retry := rl.Allow("10.0.0.1")
	assert.False(t, ok)
	assert.Equal(t, 50*time.Second, retry)

	ok, _ = rl.Allow("10.0.0.2")
	assert.True(t, ok, "limits are per client")

	clock.Advance(51 * time.Second)
	ok, _ = rl.Allow("10.0.0.1")
	assert.True(t, ok, "the oldest request has left the window")
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	r := engine(RequestID(), RateLimit(rl))

	assert.Equal(t, http.StatusOK, get(r, nil).Code)

	w := get(r, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	var body response.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, http.StatusTooManyRequests, body.Code)
	assert.Equal(t, w.Header().Get(RequestIDHeader), body.RequestID)
}

func TestRateLimitDisabled(t *testing.T) {
	t.Parallel()

	rl := NewRateLimiter(0, time.Minute)
	defer rl.Stop()
	r := engine(RateLimit(rl))
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, get(r, nil).Code)
	}
}

func TestRequestID(t *testing.T) {
	t.Parallel()
	r := engine(RequestID())

	w := get(r, nil)
	assert.Len(t, w.Header().Get(RequestIDHeader), 36)

	w = get(r, http.Header{RequestIDHeader: {"trace-123"}})
	assert.Equal(t, "trace-123", w.Header().Get(RequestIDHeader))
}

func TestRequireToken(t *testing.T) {
	t.Parallel()

	const secret = "s3cret"
	token, err := auth.Issue(secret, "analyst", time.Hour)
	require.NoError(t, err)
	r := engine(RequireToken(secret))

	cases := []struct {
		name   string
		header http.Header
		status int
	}{
		{"missing header", nil, http.StatusUnauthorized},
		{"not bearer", http.Header{"Authorization": {"Basic abc"}}, http.StatusUnauthorized},
		{"bad token", http.Header{"Authorization": {"Bearer nope"}}, http.StatusUnauthorized},
		{"valid token", http.Header{"Authorization": {"Bearer " + token}}, http.StatusOK},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.status, get(r, tc.header).Code)
		})
	}

	w := get(r, http.Header{"Authorization": {"Bearer " + token}})
	assert.Contains(t, w.Body.String(), `"subject":"analyst"`)
}

func TestRequireTokenOpenWithoutSecret(t *testing.T) {
	t.Parallel()
	assert.Equal(t, http.StatusOK, get(engine(RequireToken("")), nil).Code)
}

func TestLoggerMiddleware(t *testing.T) {
	t.Parallel()

	log, err := logger.New(logger.Config{Level: logger.InfoLevel, Format: "json"})
	require.NoError(t, err)
	var buf bytes.Buffer
	log.SetOutput(&buf)

	r := engine(RequestID(), Logger(log))
	w := get(r, http.Header{RequestIDHeader: {"req-9"}})
	require.Equal(t, http.StatusOK, w.Code)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "req-9", entry["request_id"])
	assert.Equal(t, "/ping", entry["endpoint"])
	assert.Equal(t, float64(200), entry["status_code"])
}
