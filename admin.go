package flatpress

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/eringen/flatpress/poststore"
	"github.com/eringen/flatpress/views"
)

func (a *App) handleLoginPage(c echo.Context) error {
	return Render(c, views.Login(a.page(c)))
}

func (a *App) handleLogin(c echo.Context) error {
	ip := c.RealIP()
	if !a.loginLimiter.Check(ip) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	username := strings.TrimSpace(c.FormValue("username"))
	if a.validCredentials(username, c.FormValue("password")) {
		if err := setAdminSession(c, username); err != nil {
			return err
		}
		c.Logger().Infof("admin %q logged in from %s", username, ip)
		addFlash(c, "Logged in successfully!")
		return c.Redirect(http.StatusSeeOther, "/new_post/")
	}
	a.loginLimiter.Record(ip)
	addFlash(c, "Invalid credentials!")
	return c.Redirect(http.StatusSeeOther, "/login/")
}

func (a *App) validCredentials(username, password string) bool {
	if a.Config.AdminPassword == "" {
		return false
	}
	userOK := subtle.ConstantTimeCompare([]byte(username), []byte(a.Config.AdminUsername)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(password), []byte(a.Config.AdminPassword)) == 1
	return userOK && passOK
}

func (a *App) handleLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	addFlash(c, "Logged out successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) handleNewPostPage(c echo.Context) error {
	return Render(c, views.NewPost(a.page(c)))
}

func (a *App) handleNewPost(c echo.Context) error {
	principal := PrincipalFrom(c)
	if !principal.Admin {
		return a.denyAccess(c)
	}

	attachments := make(map[poststore.MediaKind]poststore.Attachment, len(poststore.MediaKinds))
	for _, kind := range poststore.MediaKinds {
		fh, err := c.FormFile(string(kind))
		if err != nil {
			continue
		}
		f, err := fh.Open()
		if err != nil {
			return fmt.Errorf("open %s upload: %w", kind, err)
		}
		defer f.Close()
		attachments[kind] = poststore.Attachment{Filename: fh.Filename, Content: f}
	}

	name, err := a.Store.Create(principal, poststore.NewPost{
		Title:       c.FormValue("title"),
		Body:        c.FormValue("body"),
		Attachments: attachments,
	})
	var invalid *poststore.InvalidInputError
	switch {
	case errors.Is(err, poststore.ErrForbidden):
		return a.denyAccess(c)
	case errors.As(err, &invalid):
		addFlash(c, invalid.Reason)
		return c.Redirect(http.StatusSeeOther, "/new_post/")
	case errors.Is(err, poststore.ErrStoreUnavailable):
		a.metrics.storeErrors.WithLabelValues("create post").Inc()
		c.Logger().Errorf("create post: %v", err)
		addFlash(c, "Could not save the post.")
		return c.Redirect(http.StatusSeeOther, "/new_post/")
	case err != nil:
		return fmt.Errorf("create post: %w", err)
	}

	a.metrics.postsCreated.Inc()
	c.Logger().Infof("post %q published by %s", name, principal.Username)
	addFlash(c, "Post created successfully!")
	return c.Redirect(http.StatusSeeOther, "/")
}

func (a *App) denyAccess(c echo.Context) error {
	addFlash(c, accessDeniedNotice)
	return c.Redirect(http.StatusSeeOther, "/login/")
}
