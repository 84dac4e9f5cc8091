package flatpress

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/eringen/flatpress/poststore"
	"github.com/eringen/flatpress/views"
)

const accessDeniedNotice = "Access denied: Please log in as admin."

// page assembles the per-request layout data. It consumes pending flashes.
func (a *App) page(c echo.Context) views.Page {
	return views.Page{
		Site:     a.Config.viewSite(),
		Flashes:  popFlashes(c),
		Admin:    IsAdmin(c),
		Username: CurrentUsername(c),
		CSRF:     CsrfToken(c),
	}
}

func (a *App) handleHome(c echo.Context) error {
	posts, err := a.Store.ListPosts()
	if err != nil {
		return a.storeReadError(c, "list posts", err)
	}
	return Render(c, views.Home(a.page(c), views.ProjectListing(posts)))
}

func (a *App) handlePost(c echo.Context) error {
	// Echo has already decoded the path parameter.
	post, err := a.Store.GetPost(c.Param("name"))
	if err != nil {
		return a.storeReadError(c, "get post", err)
	}
	return Render(c, views.Post(a.page(c), views.ProjectDetail(post)))
}

func (a *App) handleChat(c echo.Context) error {
	return Render(c, views.Chat(a.page(c)))
}

func (a *App) handleProject(c echo.Context) error {
	return Render(c, views.Project(a.page(c)))
}

func (a *App) handleSitemap(c echo.Context) error {
	posts, err := a.Store.ListPosts()
	if err != nil {
		return a.storeReadError(c, "list posts", err)
	}
	return a.renderSitemap(c, posts)
}

func (a *App) handleFeed(c echo.Context) error {
	posts, err := a.Store.ListPosts()
	if err != nil {
		return a.storeReadError(c, "list posts", err)
	}
	return a.renderRSS(c, posts)
}

func (a *App) handleRobots(c echo.Context) error {
	body := "User-agent: *\nDisallow: /login/\nDisallow: /new_post/\n\nSitemap: " +
		BuildURL(a.Config.URL) + "sitemap.xml\n"
	return c.String(http.StatusOK, body)
}

// storeReadError maps a store failure on a read path to a response.
func (a *App) storeReadError(c echo.Context, op string, err error) error {
	switch {
	case errors.Is(err, poststore.ErrNotFound):
		return c.String(http.StatusNotFound, "Post not found")
	case errors.Is(err, poststore.ErrStoreUnavailable):
		a.metrics.storeErrors.WithLabelValues(op).Inc()
		c.Logger().Errorf("%s: %v", op, err)
		p := a.page(c)
		p.Flashes = append(p.Flashes, accessDeniedNotice)
		return RenderStatus(c, http.StatusForbidden, views.Forbidden(p))
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, views.NotFound(a.page(c)))
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		c.Logger().Errorf("server error: %v", err)
		_ = RenderStatus(c, code, views.ServerError(a.page(c)))
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
