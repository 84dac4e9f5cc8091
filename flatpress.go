// Package flatpress is a flat-file blog engine built with Go, Echo, and templ.
// Posts live as plain files on disk, an admin publishes them through a web
// form, and the whole site can be frozen into static pages.
package flatpress

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/eringen/flatpress/poststore"
)

// App is the central flatpress application. It wires together the post
// store, handlers, middleware and metrics.
type App struct {
	Config SiteConfig
	Echo   *echo.Echo
	Store  *poststore.Store

	loginLimiter *LoginLimiter
	registry     *prometheus.Registry
	metrics      *appMetrics
	customRoutes []func(*App)
}

// New creates an App: it opens the post store and registers middleware and
// routes. It does not listen; call Start for that, or Freeze to render the
// site to disk.
func New(cfg SiteConfig, opts ...Option) (*App, error) {
	cfg.setDefaults()

	store, err := poststore.NewStore(poststore.Options{
		PostsDir:          cfg.PostsDir,
		UploadDir:         cfg.UploadDir,
		MaxThumbnailWidth: cfg.MaxThumbnailWidth,
	})
	if err != nil {
		return nil, fmt.Errorf("flatpress: init store: %w", err)
	}

	registry := prometheus.NewRegistry()
	a := &App{
		Config:       cfg,
		Echo:         echo.New(),
		Store:        store,
		loginLimiter: NewLoginLimiter(5, time.Minute),
		registry:     registry,
		metrics:      newMetrics(registry),
	}
	for _, opt := range opts {
		opt(a)
	}

	a.Echo.HideBanner = true
	a.Echo.Logger.SetLevel(parseLogLevel(cfg.LogLevel))

	a.setupMiddleware()
	a.setupRoutes()
	for _, fn := range a.customRoutes {
		fn(a)
	}
	return a, nil
}

// Start validates the serving configuration and runs the HTTP server until
// it is shut down.
func (a *App) Start() error {
	if err := a.Config.Validate(); err != nil {
		return err
	}
	a.Echo.Logger.Infof("serving %s from %s", a.Config.URL, a.Config.PostsDir)
	if err := a.Echo.Start(a.Config.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

// Close releases background resources. Call this when the app is done.
func (a *App) Close() error {
	a.loginLimiter.Stop()
	return a.Echo.Close()
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Stylesheet and chat script ship inside the binary.
	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	e.GET("/public/*", echo.WrapHandler(http.StripPrefix("/public/", http.FileServer(http.FS(assets)))))
	e.Static(a.Config.UploadURLPath, a.Config.UploadDir)
	e.GET("/robots.txt", a.handleRobots)
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)

	// Public routes
	e.GET("/", a.handleHome)
	e.GET("/post/:name/", a.handlePost)
	e.GET("/chat/", a.handleChat)
	e.GET("/project/", a.handleProject)

	// Admin routes
	e.GET("/login/", a.handleLoginPage)
	e.POST("/login/", a.handleLogin)
	e.POST("/logout/", a.handleLogout)
	e.GET("/new_post/", a.handleNewPostPage)
	e.POST("/new_post/", a.handleNewPost)

	if a.Config.MetricsEnabled {
		e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{
			Gatherer: a.registry,
		}))
	}
}

func parseLogLevel(level string) log.Lvl {
	switch strings.ToLower(level) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	}
	return log.INFO
}
