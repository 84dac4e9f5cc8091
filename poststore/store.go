// Package poststore keeps blog posts as flat files. Each post is a content
// file holding a heading and a sanitized body, optionally accompanied by a
// sidecar that names its media attachments.
//
// The store never caches: every read goes back to disk.
package poststore

import (
	"errors"
	"html"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

const (
	contentExt = ".html"
	metaExt    = ".meta"

	// DateLayout is the format of Summary.Date and Detail.Date.
	DateLayout = "2006-01-02 15:04"
)

// Options configures where a Store keeps its files.
type Options struct {
	PostsDir          string
	UploadDir         string
	MaxThumbnailWidth int // 0 keeps thumbnails as uploaded
}

// Summary is a post as shown on the homepage listing.
type Summary struct {
	Name    string
	Title   string
	Snippet string
	Date    string
	ModTime time.Time
	Media
}

// Detail is a post as shown on its own page. Body is the full markup,
// heading included.
type Detail struct {
	Name    string
	Title   string
	Body    string
	Date    string
	ModTime time.Time
	Media
}

// Principal identifies who is asking for a mutation.
type Principal struct {
	Admin    bool
	Username string
}

// NewPost is the input to Create.
type NewPost struct {
	Title       string
	Body        string
	Attachments map[MediaKind]Attachment
}

// Store reads and writes posts under a posts directory and an upload directory.
//
// There is no locking between writers: two Creates that derive the same
// name race, and the last rename wins.
type Store struct {
	postsDir          string
	uploadDir         string
	maxThumbnailWidth int
}

// NewStore returns a Store for opts, creating both directories if needed.
func NewStore(opts Options) (*Store, error) {
	s := &Store{
		postsDir:          opts.PostsDir,
		uploadDir:         opts.UploadDir,
		maxThumbnailWidth: opts.MaxThumbnailWidth,
	}
	if err := s.ensureDirs(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Store) ensureDirs() error {
	for _, dir := range []string{s.postsDir, s.uploadDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return writeErr("create "+filepath.Base(dir)+" dir", err)
		}
	}
	return nil
}

func (s *Store) contentPath(name string) string {
	return filepath.Join(s.postsDir, name+contentExt)
}

// ListPosts returns every post in filename order. A missing posts directory
// yields an empty list.
func (s *Store) ListPosts() ([]Summary, error) {
	entries, err := os.ReadDir(s.postsDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Summary{}, nil
		}
		return nil, readErr("list posts", err)
	}

	posts := make([]Summary, 0, len(entries))
	for _, e := range entries {
		name, ok := strings.CutSuffix(e.Name(), contentExt)
		if !ok || !validName(name) || e.IsDir() {
			continue
		}
		rec, err := s.load(name)
		if errors.Is(err, ErrNotFound) {
			continue // removed while listing
		}
		if err != nil {
			return nil, err
		}
		title, text := parseContent(rec.raw)
		if title == "" {
			title = Humanize(name)
		}
		posts = append(posts, Summary{
			Name:    name,
			Title:   title,
			Snippet: Snippet(text),
			Date:    rec.modTime.Format(DateLayout),
			ModTime: rec.modTime,
			Media:   rec.media,
		})
	}
	return posts, nil
}

// GetPost returns the post stored under name.
func (s *Store) GetPost(name string) (Detail, error) {
	if !validName(name) {
		return Detail{}, ErrNotFound
	}
	rec, err := s.load(name)
	if err != nil {
		return Detail{}, err
	}
	title, _ := parseContent(rec.raw)
	if title == "" {
		title = Humanize(name)
	}
	return Detail{
		Name:    name,
		Title:   title,
		Body:    Sanitize(rec.raw),
		Date:    rec.modTime.Format(DateLayout),
		ModTime: rec.modTime,
		Media:   rec.media,
	}, nil
}

// Create validates and persists a new post and returns its name. Only an
// admin principal may create posts; that is checked before anything else.
//
// A post whose name is already taken replaces the existing one, including
// its attachments list.
func (s *Store) Create(p Principal, in NewPost) (string, error) {
	if !p.Admin {
		return "", ErrForbidden
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return "", invalid("Title is required.")
	}
	if strings.TrimSpace(in.Body) == "" {
		return "", invalid("Post body is required.")
	}
	body := Sanitize(in.Body)
	if !hasText(body) {
		return "", invalid("Post body is empty once unsupported markup is removed.")
	}
	name := Slug(title)
	if name == "" {
		return "", invalid("Title must contain at least one letter or digit.")
	}

	if err := s.ensureDirs(); err != nil {
		return "", err
	}
	var media Media
	for _, kind := range MediaKinds {
		a, ok := in.Attachments[kind]
		if !ok {
			continue
		}
		stored, err := s.saveAttachment(kind, a)
		if err != nil {
			return "", err
		}
		media.set(kind, stored)
	}

	content := "<h1>" + html.EscapeString(title) + "</h1>\n" + body
	if err := s.writePost(name, []byte(content), media); err != nil {
		return "", err
	}
	return name, nil
}

// writePost stages the content file and sidecar, then renames the sidecar
// into place before the content file. A failure in between leaves at most a
// sidecar without content, which is never listed.
func (s *Store) writePost(name string, content []byte, media Media) error {
	contentPath := s.contentPath(name)
	metaPath := contentPath + metaExt

	tmpContent, err := stageFile(contentPath, content)
	if err != nil {
		return writeErr("write post", err)
	}
	defer os.Remove(tmpContent)

	if !media.Empty() {
		meta, err := media.MarshalText()
		if err != nil {
			return writeErr("write sidecar", err)
		}
		tmpMeta, err := stageFile(metaPath, meta)
		if err != nil {
			return writeErr("write sidecar", err)
		}
		defer os.Remove(tmpMeta)
		if err := os.Rename(tmpMeta, metaPath); err != nil {
			return writeErr("write sidecar", err)
		}
	}
	if err := os.Rename(tmpContent, contentPath); err != nil {
		return writeErr("write post", err)
	}
	if media.Empty() {
		if err := os.Remove(metaPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return writeErr("remove stale sidecar", err)
		}
	}
	return nil
}

type record struct {
	raw     string
	modTime time.Time
	media   Media
}

func (s *Store) load(name string) (record, error) {
	path := s.contentPath(name)
	f, err := os.Open(path)
	if err != nil {
		return record{}, readErr("read post", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return record{}, readErr("stat post", err)
	}
	if info.IsDir() {
		return record{}, ErrNotFound
	}
	raw, err := io.ReadAll(f)
	if err != nil {
		return record{}, readErr("read post", err)
	}
	media, err := readSidecar(path + metaExt)
	if err != nil {
		return record{}, err
	}
	return record{raw: string(raw), modTime: info.ModTime(), media: media}, nil
}

// readSidecar loads the media references for a content file. A missing
// sidecar means no attachments; one that exists but cannot be read makes the
// whole post unavailable.
func readSidecar(path string) (Media, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Media{}, nil
		}
		return Media{}, unavailable("read sidecar", err)
	}
	defer f.Close()
	media, err := ParseMetadata(f)
	if err != nil {
		return Media{}, unavailable("read sidecar", err)
	}
	return media, nil
}
