package flatpress

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/flatpress/views"
)

// staticRoutes are frozen on every run, before the post pages.
var staticRoutes = []string{
	"/",
	"/login/",
	"/new_post/",
	"/chat/",
	"/project/",
	"/sitemap.xml",
	"/feed.xml",
	"/robots.txt",
}

const freezeWorkers = 4

// freezeTarget pairs a route with the file its response is written to.
type freezeTarget struct {
	route string
	file  string
}

// FreezeReport summarises a Freeze run.
type FreezeReport struct {
	OutDir string
	Pages  int // rendered routes
	Assets int // copied uploads and embedded files
}

// Freeze renders every public route through the in-process router and
// writes the result under outDir, together with uploads and embedded
// assets, so the site can be hosted without a live server.
func (a *App) Freeze(ctx context.Context, outDir string) (FreezeReport, error) {
	report := FreezeReport{OutDir: outDir}

	posts, err := a.Store.ListPosts()
	if err != nil {
		return report, fmt.Errorf("freeze: %w", err)
	}
	targets := make([]freezeTarget, 0, len(staticRoutes)+len(posts))
	for _, route := range staticRoutes {
		targets = append(targets, freezeTarget{route: route, file: frozenPath(outDir, route)})
	}
	for _, p := range posts {
		// Static hosts decode the request path before the file lookup, so
		// the directory carries the raw name rather than the escaped route.
		targets = append(targets, freezeTarget{
			route: views.PostPath(p.Name),
			file:  filepath.Join(outDir, "post", p.Name, "index.html"),
		})
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return report, fmt.Errorf("freeze: %w", err)
	}

	var pages atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(freezeWorkers)
	for _, target := range targets {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := a.freezeRoute(gctx, target); err != nil {
				return err
			}
			pages.Add(1)
			a.metrics.frozenPages.Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return report, err
	}
	report.Pages = int(pages.Load())

	uploads, err := copyTree(os.DirFS(a.Config.UploadDir), filepath.Join(outDir, filepath.FromSlash(a.Config.UploadURLPath)))
	if err != nil {
		return report, fmt.Errorf("freeze: copy uploads: %w", err)
	}
	assets, _ := fs.Sub(EmbeddedAssets, "embedded")
	embedded, err := copyTree(assets, filepath.Join(outDir, "public"))
	if err != nil {
		return report, fmt.Errorf("freeze: copy assets: %w", err)
	}
	report.Assets = uploads + embedded

	a.Echo.Logger.Infof("froze %d pages and %d assets into %s", report.Pages, report.Assets, outDir)
	return report, nil
}

func (a *App) freezeRoute(ctx context.Context, t freezeTarget) error {
	req := httptest.NewRequest(http.MethodGet, t.route, nil).WithContext(ctx)
	rec := httptest.NewRecorder()
	a.Echo.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		return fmt.Errorf("freeze %s: status %d", t.route, rec.Code)
	}
	if err := os.MkdirAll(filepath.Dir(t.file), 0o755); err != nil {
		return fmt.Errorf("freeze %s: %w", t.route, err)
	}
	if err := os.WriteFile(t.file, rec.Body.Bytes(), 0o644); err != nil {
		return fmt.Errorf("freeze %s: %w", t.route, err)
	}
	return nil
}

// frozenPath maps a static route to its file: directory routes become
// index.html.
func frozenPath(outDir, route string) string {
	rel := filepath.FromSlash(strings.TrimPrefix(route, "/"))
	if route == "" || strings.HasSuffix(route, "/") {
		return filepath.Join(outDir, rel, "index.html")
	}
	return filepath.Join(outDir, rel)
}

// copyTree copies every regular file in src to dst, overwriting existing
// files. A missing source yields zero files.
func copyTree(src fs.FS, dst string) (int, error) {
	n := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == "." && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipAll
			}
			return err
		}
		target := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			return os.MkdirAll(target, 0o755)
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := copyFile(src, p, target); err != nil {
			return err
		}
		n++
		return nil
	})
	return n, err
}

func copyFile(src fs.FS, name, target string) error {
	in, err := src.Open(name)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(target)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
