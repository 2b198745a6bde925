package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/kashvi-shop/pkg/auth"
)

func protected(t *testing.T, m *auth.Manager) (http.Handler, *int) {
	t.Helper()
	calls := 0
	h := Auth(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		id, ok := auth.UserIDFrom(r.Context())
		require.True(t, ok)
		assert.Equal(t, uint(11), id)
		w.WriteHeader(http.StatusNoContent)
	}))
	return h, &calls
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	h, calls := protected(t, auth.NewManager("secret", time.Hour))

	for _, header := range []string{"", "Bearer", "Bearer   ", "Token abc", "abc"} {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, header)
		assert.JSONEq(t, `{"error":"Token is missing"}`, rec.Body.String(), header)
	}
	assert.Zero(t, *calls)
}

func TestAuthRejectsInvalidToken(t *testing.T) {
	h, calls := protected(t, auth.NewManager("secret", time.Hour))
	foreign, err := auth.NewManager("other", time.Hour).GenerateToken(11)
	require.NoError(t, err)

	for _, token := range []string{"a-completely-invalid-token", foreign} {
		req := httptest.NewRequest(http.MethodGet, "/orders", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.JSONEq(t, `{"error":"Token is invalid"}`, rec.Body.String())
	}
	assert.Zero(t, *calls)
}

func TestAuthInjectsUserID(t *testing.T) {
	m := auth.NewManager("secret", time.Hour)
	h, calls := protected(t, m)
	token, err := m.GenerateToken(11)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	req.Header.Set("Authorization", "bearer "+token)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 1, *calls)
}

func TestLimiterWindow(t *testing.T) {
	now := time.Now()
	l := newLimiter(2, time.Minute)
	l.now = func() time.Time { return now }

	assert.True(t, l.allow("1.2.3.4"))
	assert.True(t, l.allow("1.2.3.4"))
	assert.False(t, l.allow("1.2.3.4"))
	assert.True(t, l.allow("5.6.7.8"))

	now = now.Add(61 * time.Second)
	assert.True(t, l.allow("1.2.3.4"))
	assert.Len(t, l.buckets, 1)
}

func TestRateLimitResponds429(t *testing.T) {
	h := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	first := httptest.NewRecorder()
	h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
}

func TestRateLimitDisabled(t *testing.T) {
	h := RateLimit(0, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	for i := 0; i < 50; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i)
	}
}

func TestRateLimitIgnoresForwardedForFromUntrustedPeer(t *testing.T) {
	h := RateLimit(1, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))

	codes := make([]int, 0, 3)
	for _, fwd := range []string{"1.1.1.1", "2.2.2.2", "3.3.3.3"} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "203.0.113.9:4000"
		req.Header.Set("X-Forwarded-For", fwd)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests, http.StatusTooManyRequests}, codes)
}

func TestClientIPBehindTrustedProxy(t *testing.T) {
	proxies := parseProxies([]string{"10.0.0.0/8", "192.0.2.1", "not-an-ip"})
	require.Len(t, proxies, 2)

	for name, tc := range map[string]struct {
		remote, fwd, want string
	}{
		"direct client":          {"198.51.100.7:1234", "1.1.1.1", "198.51.100.7"},
		"single proxy":           {"10.1.2.3:80", "198.51.100.7", "198.51.100.7"},
		"spoofed leftmost hop":   {"10.1.2.3:80", "6.6.6.6, 198.51.100.7", "198.51.100.7"},
		"chained proxies":        {"192.0.2.1:80", "198.51.100.7, 10.9.9.9", "198.51.100.7"},
		"proxy without header":   {"10.1.2.3:80", "", "10.1.2.3"},
		"only proxies forwarded": {"10.1.2.3:80", "10.4.4.4", "10.4.4.4"},
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = tc.remote
		if tc.fwd != "" {
			req.Header.Set("X-Forwarded-For", tc.fwd)
		}
		assert.Equal(t, tc.want, proxies.clientIP(req), name)
	}
}

func TestRecovery(t *testing.T) {
	h := Recovery(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, rec.Body.String())
}

func corsRequest(h http.Handler, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/orders", nil)
	req.Header.Set("Origin", origin)
	if method == http.MethodOptions {
		req.Header.Set("Access-Control-Request-Method", "POST")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	teapot := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	open := CORS("*")(teapot)
	rec := corsRequest(open, http.MethodOptions, "http://shop.local")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	listed := CORS("http://shop.local")(teapot)
	rec = corsRequest(listed, http.MethodGet, "http://shop.local")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "http://shop.local", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = corsRequest(listed, http.MethodOptions, "http://evil.example")
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
