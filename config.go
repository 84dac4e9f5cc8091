package flatpress

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/eringen/flatpress/views"
)

// SiteConfig holds all configuration for a flatpress site.
type SiteConfig struct {
	Name        string // Site name (default "Blog")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Author name for JSON-LD

	Addr          string // Listen address (default ":3000")
	PostsDir      string // Content files and sidecars (default "posts")
	UploadDir     string // Uploaded media (default "static/uploads")
	UploadURLPath string // URL prefix uploads are served under (default "/static/uploads")

	AdminUsername string // Admin login name (default "admin")
	AdminPassword string // Required to serve: admin login password
	SessionSecret string // Required to serve: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	MaxUploadSize     int64 // Request body limit in bytes (default 32MB)
	MaxThumbnailWidth int   // Wider thumbnails are scaled down (default 800, negative disables)
	MetricsEnabled    bool  // Serve Prometheus metrics at /metrics
	LogLevel          string
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Blog"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	c.URL = strings.TrimSuffix(c.URL, "/")
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.PostsDir == "" {
		c.PostsDir = "posts"
	}
	if c.UploadDir == "" {
		c.UploadDir = "static/uploads"
	}
	if c.UploadURLPath == "" {
		c.UploadURLPath = "/static/uploads"
	}
	c.UploadURLPath = "/" + strings.Trim(c.UploadURLPath, "/")
	if c.AdminUsername == "" {
		c.AdminUsername = "admin"
	}
	if c.MaxUploadSize <= 0 {
		c.MaxUploadSize = 32 << 20
	}
	if c.MaxThumbnailWidth == 0 {
		c.MaxThumbnailWidth = 800
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate reports settings that must be present before serving requests.
func (c SiteConfig) Validate() error {
	var errs []error
	if c.AdminPassword == "" {
		errs = append(errs, errors.New("flatpress: AdminPassword is required"))
	}
	if c.SessionSecret == "" {
		errs = append(errs, errors.New("flatpress: SessionSecret is required"))
	}
	return errors.Join(errs...)
}

func (c SiteConfig) viewSite() views.SiteConfig {
	return views.SiteConfig{
		Name:        c.Name,
		URL:         c.URL,
		Description: c.Description,
		Author:      c.Author,
		UploadURL:   c.UploadURLPath,
	}
}

// LoadConfig builds a SiteConfig from environment variables. Unset values
// fall back to the defaults.
func LoadConfig() SiteConfig {
	cfg := SiteConfig{
		Name:              os.Getenv("SITE_NAME"),
		URL:               os.Getenv("SITE_URL"),
		Description:       os.Getenv("SITE_DESCRIPTION"),
		Author:            os.Getenv("SITE_AUTHOR"),
		Addr:              os.Getenv("ADDR"),
		PostsDir:          os.Getenv("POSTS_DIR"),
		UploadDir:         os.Getenv("UPLOAD_DIR"),
		UploadURLPath:     os.Getenv("UPLOAD_URL_PATH"),
		AdminUsername:     os.Getenv("ADMIN_USERNAME"),
		AdminPassword:     os.Getenv("ADMIN_PASSWORD"),
		SessionSecret:     os.Getenv("ADMIN_SESSION_SECRET"),
		CookieSecure:      envBool("COOKIE_SECURE"),
		MaxUploadSize:     int64(envInt("MAX_UPLOAD_MB", 0)) << 20,
		MaxThumbnailWidth: envInt("THUMBNAIL_MAX_WIDTH", 0),
		MetricsEnabled:    envBool("METRICS_ENABLED"),
		LogLevel:          os.Getenv("LOG_LEVEL"),
	}
	cfg.setDefaults()
	return cfg
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App after the built-in routes are registered.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}

func envInt(key string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return fallback
	}
	return n
}
