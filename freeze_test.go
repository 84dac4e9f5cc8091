package flatpress

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eringen/flatpress/poststore"
)

func readFile(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestFreezeWritesSite(t *testing.T) {
	a := newTestApp(t)
	_, err := a.Store.Create(testAdmin, poststore.NewPost{
		Title: "Frozen Post",
		Body:  "<p>Cold storage</p>",
		Attachments: map[poststore.MediaKind]poststore.Attachment{
			poststore.KindThumbnail: {Filename: "ice.png", Content: bytes.NewReader(tinyPNG(t))},
		},
	})
	require.NoError(t, err)

	out := filepath.Join(t.TempDir(), "build")
	report, err := a.Freeze(context.Background(), out)
	require.NoError(t, err)

	assert.Equal(t, out, report.OutDir)
	assert.Equal(t, len(staticRoutes)+1, report.Pages)
	assert.Equal(t, 3, report.Assets) // ice.png, style.css, chat.js

	assert.Contains(t, readFile(t, filepath.Join(out, "index.html")), `href="/post/Frozen_Post/"`)
	assert.Contains(t, readFile(t, filepath.Join(out, "post", "Frozen_Post", "index.html")), "<p>Cold storage</p>")
	assert.Contains(t, readFile(t, filepath.Join(out, "sitemap.xml")), "https://blog.example.com/post/Frozen_Post/")
	assert.Contains(t, readFile(t, filepath.Join(out, "robots.txt")), "Sitemap:")
	for _, page := range []string{"login", "new_post", "chat", "project"} {
		assert.FileExists(t, filepath.Join(out, page, "index.html"))
	}
	assert.FileExists(t, filepath.Join(out, "feed.xml"))
	assert.FileExists(t, filepath.Join(out, "static", "uploads", "ice.png"))
	assert.FileExists(t, filepath.Join(out, "public", "style.css"))
	assert.FileExists(t, filepath.Join(out, "public", "chat.js"))
}

func TestFreezeTwiceOverwrites(t *testing.T) {
	a := newTestApp(t)
	out := t.TempDir()

	_, err := a.Freeze(context.Background(), out)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(out, "index.html")), "No posts yet.")

	_, err = a.Store.Create(testAdmin, poststore.NewPost{Title: "Later", Body: "<p>x</p>"})
	require.NoError(t, err)
	_, err = a.Freeze(context.Background(), out)
	require.NoError(t, err)
	assert.Contains(t, readFile(t, filepath.Join(out, "index.html")), "Later")
}

func TestFreezeFailsWhenStoreUnreadable(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root ignores directory permissions")
	}
	a := newTestApp(t)
	require.NoError(t, os.Chmod(a.Config.PostsDir, 0o000))
	t.Cleanup(func() { os.Chmod(a.Config.PostsDir, 0o755) })

	_, err := a.Freeze(context.Background(), t.TempDir())
	assert.ErrorIs(t, err, poststore.ErrStoreUnavailable)
}

func TestFreezeCanceled(t *testing.T) {
	a := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Freeze(ctx, t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFrozenPath(t *testing.T) {
	out := "build"
	tests := []struct {
		route string
		want  string
	}{
		{"/", filepath.Join("build", "index.html")},
		{"/chat/", filepath.Join("build", "chat", "index.html")},
		{"/post/Hello/", filepath.Join("build", "post", "Hello", "index.html")},
		{"/feed.xml", filepath.Join("build", "feed.xml")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, frozenPath(out, tt.route), tt.route)
	}
}

func TestFreezeHandEditedNamesNeedingEscapes(t *testing.T) {
	a := newTestApp(t)
	for file, body := range map[string]string{
		"My Post.html": "<h1>Spaced</h1><p>gap</p>",
		"100%25.html":  "<h1>Percent</h1><p>full</p>",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(a.Config.PostsDir, file), []byte(body), 0o644))
	}

	out := t.TempDir()
	report, err := a.Freeze(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, len(staticRoutes)+2, report.Pages)

	assert.Contains(t, readFile(t, filepath.Join(out, "post", "My Post", "index.html")), "<p>gap</p>")
	assert.Contains(t, readFile(t, filepath.Join(out, "post", "100%25", "index.html")), "<p>full</p>")
	assert.NoDirExists(t, filepath.Join(out, "post", "My%20Post"))
	assert.NoDirExists(t, filepath.Join(out, "post", "100%2525"))
}
