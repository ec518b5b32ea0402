package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"formpulse/internal/log"
)

func TestLogging(t *testing.T) {
	hook := logtest.NewLocal(log.Logger)
	defer hook.Reset()

	h := Logging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))

	r := httptest.NewRequest("GET", "/api/forms", nil)
	r.Header.Set("X-Forwarded-For", "203.0.113.9")
	h.ServeHTTP(httptest.NewRecorder(), r)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level, "successful requests are visible at the default level")
	assert.Equal(t, "GET", entry.Data["method"])
	assert.Equal(t, "/api/forms", entry.Data["path"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
	assert.Equal(t, "203.0.113.9", entry.Data["remote"])
	assert.IsType(t, int64(0), entry.Data["duration_ms"])

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/missing", nil))
	entry = hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, http.StatusNotFound, entry.Data["status"])
	assert.Equal(t, "192.0.2.1", entry.Data["remote"])
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded", map[string]string{"X-Forwarded-For": " 203.0.113.1 , 10.0.0.2"}, "10.0.0.3:5000", "203.0.113.1"},
		{"real ip", map[string]string{"X-Real-IP": "198.51.100.7"}, "10.0.0.3:5000", "198.51.100.7"},
		{"remote addr", nil, "192.0.2.10:4321", "192.0.2.10"},
		{"ipv6 remote", nil, "[::1]:8080", "::1"},
		{"bare remote", nil, "pipe", "pipe"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIP(r))
		})
	}
}
