package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvironmentOverridesFiles(t *testing.T) {
	t.Setenv("JWT_SECRET", "from-env")
	assert.Equal(t, "from-env", JWTSecret())
}

func TestAppPortDefaultsPerService(t *testing.T) {
	t.Setenv("APP_PORT", "")
	assert.Equal(t, "5000", AppPort(ServiceFrontend))
	assert.Equal(t, "5001", AppPort(ServiceProduct))
	assert.Equal(t, "5002", AppPort(ServiceOrder))
	assert.Equal(t, "5003", AppPort(ServiceUser))

	t.Setenv("APP_PORT", "9090")
	assert.Equal(t, "9090", AppPort(ServiceOrder))
}

func TestDatabaseDSNPerService(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "")
	assert.Equal(t, "order.db", DatabaseDSN(ServiceOrder))

	t.Setenv("DB_DRIVER", "oracle")
	assert.Equal(t, "sqlite", DatabaseDriver())

	t.Setenv("DB_DRIVER", "memory")
	assert.Equal(t, "memory", DatabaseDriver())
}

func TestTypedGettersFallBackOnGarbage(t *testing.T) {
	t.Setenv("PRODUCT_CLIENT_TIMEOUT", "soon")
	assert.Equal(t, 5*time.Second, ProductClientTimeout())

	t.Setenv("PRODUCT_CLIENT_TIMEOUT", "250ms")
	assert.Equal(t, 250*time.Millisecond, ProductClientTimeout())

	t.Setenv("RATE_LIMIT_PER_MINUTE", "-3")
	assert.Equal(t, 200, RateLimitPerMinute(ServiceFrontend))

	t.Setenv("DB_AUTO_MIGRATE", "false")
	assert.False(t, AutoMigrate())
}

func TestPeerURLsTrimTrailingSlash(t *testing.T) {
	t.Setenv("PRODUCT_SERVICE_URL", "http://product:5001/")
	assert.Equal(t, "http://product:5001", ProductServiceURL())
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	jsonPath := filepath.Join(dir, "app.json")
	envPath := filepath.Join(dir, ".env")

	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"jwt_ttl":"1h","session_cookie":"from-json"}`), 0o600))
	require.NoError(t, os.WriteFile(envPath, []byte("# comment\nSESSION_COOKIE=\"from-dotenv\"\n"), 0o600))

	mu.RLock()
	saved := values
	mu.RUnlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})

	require.NoError(t, loadFromFiles(jsonPath, envPath))
	assert.Equal(t, time.Hour, getDuration("JWT_TTL", 0))
	assert.Equal(t, "from-dotenv", get("SESSION_COOKIE", ""))
}

func TestLoadFromFilesMissingIsFine(t *testing.T) {
	dir := t.TempDir()

	mu.RLock()
	saved := values
	mu.RUnlock()
	t.Cleanup(func() {
		mu.Lock()
		values = saved
		mu.Unlock()
	})

	assert.NoError(t, loadFromFiles(filepath.Join(dir, "nope.json"), filepath.Join(dir, ".env")))
}

func TestCORSOrigins(t *testing.T) {
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	assert.Equal(t, []string{"*"}, CORSOrigins())

	t.Setenv("CORS_ALLOWED_ORIGINS", "http://shop.local, https://shop.example.com,")
	assert.Equal(t, []string{"http://shop.local", "https://shop.example.com"}, CORSOrigins())
}

func TestRateLimitPerService(t *testing.T) {
	assert.Equal(t, 200, RateLimitPerMinute(ServiceFrontend))
	for _, name := range []string{ServiceUser, ServiceProduct, ServiceOrder} {
		assert.Zero(t, RateLimitPerMinute(name), name)
	}

	t.Setenv("RATE_LIMIT_PER_MINUTE", "50")
	assert.Equal(t, 50, RateLimitPerMinute(ServiceFrontend))
	assert.Zero(t, RateLimitPerMinute(ServiceProduct))

	t.Setenv("RATE_LIMIT_PER_MINUTE_PRODUCT", "1000")
	t.Setenv("RATE_LIMIT_PER_MINUTE_FRONTEND", "0")
	assert.Equal(t, 1000, RateLimitPerMinute(ServiceProduct))
	assert.Zero(t, RateLimitPerMinute(ServiceFrontend))

	t.Setenv("RATE_LIMIT_PER_MINUTE_ORDER", "lots")
	assert.Zero(t, RateLimitPerMinute(ServiceOrder))
}

func TestTrustedProxies(t *testing.T) {
	assert.Empty(t, TrustedProxies())

	t.Setenv("TRUSTED_PROXIES", " 10.0.0.0/8, ,127.0.0.1")
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, TrustedProxies())
}
