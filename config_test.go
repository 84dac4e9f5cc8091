package flatpress

import (
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SITE_NAME", "SITE_URL", "ADDR", "POSTS_DIR", "UPLOAD_DIR", "UPLOAD_URL_PATH",
		"ADMIN_USERNAME", "MAX_UPLOAD_MB", "THUMBNAIL_MAX_WIDTH", "LOG_LEVEL", "METRICS_ENABLED", "COOKIE_SECURE"} {
		t.Setenv(key, "")
	}

	cfg := LoadConfig()
	assert.Equal(t, "Blog", cfg.Name)
	assert.Equal(t, "http://localhost:3000", cfg.URL)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, "posts", cfg.PostsDir)
	assert.Equal(t, "static/uploads", cfg.UploadDir)
	assert.Equal(t, "/static/uploads", cfg.UploadURLPath)
	assert.Equal(t, "admin", cfg.AdminUsername)
	assert.Equal(t, int64(32<<20), cfg.MaxUploadSize)
	assert.Equal(t, 800, cfg.MaxThumbnailWidth)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.MetricsEnabled)
	assert.False(t, cfg.CookieSecure)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SITE_NAME", "Field Notes")
	t.Setenv("SITE_URL", "https://notes.example.org/")
	t.Setenv("UPLOAD_URL_PATH", "media/")
	t.Setenv("MAX_UPLOAD_MB", "8")
	t.Setenv("THUMBNAIL_MAX_WIDTH", "-1")
	t.Setenv("METRICS_ENABLED", "TRUE")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("ADMIN_PASSWORD", "pw")
	t.Setenv("ADMIN_SESSION_SECRET", "secret")

	cfg := LoadConfig()
	assert.Equal(t, "Field Notes", cfg.Name)
	assert.Equal(t, "https://notes.example.org", cfg.URL)
	assert.Equal(t, "/media", cfg.UploadURLPath)
	assert.Equal(t, int64(8<<20), cfg.MaxUploadSize)
	assert.Equal(t, -1, cfg.MaxThumbnailWidth)
	assert.True(t, cfg.MetricsEnabled)
	assert.True(t, cfg.CookieSecure)
	assert.NoError(t, cfg.Validate())
}

func TestValidateRequiresSecrets(t *testing.T) {
	err := SiteConfig{}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AdminPassword")
	assert.Contains(t, err.Error(), "SessionSecret")
}

func TestEnvOr(t *testing.T) {
	t.Setenv("FLATPRESS_TEST_KEY", "")
	assert.Equal(t, "fallback", EnvOr("FLATPRESS_TEST_KEY", "fallback"))
	t.Setenv("FLATPRESS_TEST_KEY", "set")
	assert.Equal(t, "set", EnvOr("FLATPRESS_TEST_KEY", "fallback"))
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, log.DEBUG, parseLogLevel("DEBUG"))
	assert.Equal(t, log.WARN, parseLogLevel("warning"))
	assert.Equal(t, log.ERROR, parseLogLevel("error"))
	assert.Equal(t, log.OFF, parseLogLevel("off"))
	assert.Equal(t, log.INFO, parseLogLevel("chatty"))
}

func TestBuildURL(t *testing.T) {
	assert.Equal(t, "https://example.com/", BuildURL("https://example.com"))
	assert.Equal(t, "https://example.com/post/Hello/", BuildURL("https://example.com", "post", "Hello"))
	assert.Equal(t, "https://example.com/blog/chat/", BuildURL("https://example.com/blog", "chat"))
}

func TestWithCustomRoutes(t *testing.T) {
	root := t.TempDir()
	a, err := New(SiteConfig{PostsDir: root + "/posts", UploadDir: root + "/up", LogLevel: "off"},
		WithCustomRoutes(func(a *App) {
			a.Echo.GET("/ping/", func(c echo.Context) error { return c.String(200, "pong") })
		}))
	require.NoError(t, err)
	defer a.Close()

	rec := newClient(t, a).get("/ping/")
	assert.Equal(t, 200, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}
