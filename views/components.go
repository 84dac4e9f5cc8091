package views

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// htmlWriter keeps the first write error so components can emit markup
// without checking every call.
type htmlWriter struct {
	w   io.Writer
	err error
}

func (h *htmlWriter) raw(s string) {
	if h.err != nil {
		return
	}
	_, h.err = io.WriteString(h.w, s)
}

// text writes s escaped for element content and attribute values.
func (h *htmlWriter) text(s string) {
	h.raw(templ.EscapeString(s))
}

func component(render func(h *htmlWriter)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}
		render(h)
		return h.err
	})
}

func csrfField(h *htmlWriter, token string) {
	h.raw(`<input type="hidden" name="_csrf" value="`)
	h.text(token)
	h.raw(`">`)
}

// layout wraps body in the shared page shell: head, navigation, flash
// notices and footer.
func layout(p Page, title string, body func(h *htmlWriter)) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`)
		h.raw(`<meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		if title != "" {
			h.text(title)
			h.raw(" · ")
		}
		h.text(p.Site.Name)
		h.raw(`</title>`)
		if p.Site.Description != "" {
			h.raw(`<meta name="description" content="`)
			h.text(p.Site.Description)
			h.raw(`">`)
		}
		h.raw(`<link rel="stylesheet" href="/public/style.css">`)
		h.raw(`<link rel="alternate" type="application/rss+xml" href="/feed.xml" title="`)
		h.text(p.Site.Name)
		h.raw(`"></head><body><header class="site-header"><nav>`)
		h.raw(`<a class="brand" href="/">`)
		h.text(p.Site.Name)
		h.raw(`</a><a href="/chat/">Chat</a><a href="/project/">Project</a>`)
		if p.Admin {
			h.raw(`<a href="/new_post/">New post</a><form class="inline" method="post" action="/logout/">`)
			csrfField(h, p.CSRF)
			h.raw(`<button type="submit">Log out `)
			h.text(p.Username)
			h.raw(`</button></form>`)
		} else {
			h.raw(`<a href="/login/">Login</a>`)
		}
		h.raw(`</nav></header>`)

		if len(p.Flashes) > 0 {
			h.raw(`<ul class="flashes">`)
			for _, f := range p.Flashes {
				h.raw(`<li>`)
				h.text(f)
				h.raw(`</li>`)
			}
			h.raw(`</ul>`)
		}

		h.raw(`<main>`)
		body(h)
		h.raw(`</main><footer><p>`)
		h.text(p.Site.Name)
		if p.Site.Author != "" {
			h.raw(` by `)
			h.text(p.Site.Author)
		}
		h.raw(`</p></footer></body></html>`)
	})
}

func media(h *htmlWriter, uploadURL, thumbnail, video, audio, alt string) {
	if thumbnail != "" {
		h.raw(`<img class="thumbnail" loading="lazy" src="`)
		h.text(MediaURL(uploadURL, thumbnail))
		h.raw(`" alt="`)
		h.text(alt)
		h.raw(`">`)
	}
	if video != "" {
		h.raw(`<video controls preload="metadata" src="`)
		h.text(MediaURL(uploadURL, video))
		h.raw(`"></video>`)
	}
	if audio != "" {
		h.raw(`<audio controls preload="none" src="`)
		h.text(MediaURL(uploadURL, audio))
		h.raw(`"></audio>`)
	}
}

func jsonLD(h *htmlWriter, data string) {
	// json.Marshal escapes <, > and &, so data cannot close the script element.
	h.raw(`<script type="application/ld+json">`)
	h.raw(data)
	h.raw(`</script>`)
}

// Home renders the post listing.
func Home(p Page, posts []ListingEntry) templ.Component {
	return layout(p, "", func(h *htmlWriter) {
		h.raw(`<section class="posts"><h1>Latest posts</h1>`)
		if len(posts) == 0 {
			h.raw(`<p class="empty">No posts yet.</p>`)
		}
		for _, post := range posts {
			h.raw(`<article class="post-card">`)
			media(h, p.Site.UploadURL, post.Thumbnail, post.Video, post.Audio, post.Title)
			h.raw(`<h2><a href="`)
			h.text(PostPath(post.Name))
			h.raw(`">`)
			h.text(post.Title)
			h.raw(`</a></h2><time>`)
			h.text(post.Date)
			h.raw(`</time><p class="snippet">`)
			h.text(post.Snippet)
			h.raw(`</p><a class="more" href="`)
			h.text(PostPath(post.Name))
			h.raw(`">Read more</a></article>`)
		}
		h.raw(`</section>`)
		jsonLD(h, WebsiteJsonLD(p.Site))
	})
}

// Post renders a single post. The content is trusted sanitized markup.
func Post(p Page, post DetailEntry) templ.Component {
	return layout(p, post.Title, func(h *htmlWriter) {
		h.raw(`<article class="post"><time>`)
		h.text(post.Date)
		h.raw(`</time>`)
		media(h, p.Site.UploadURL, post.Thumbnail, post.Video, post.Audio, post.Title)
		h.raw(`<div class="content">`)
		h.raw(post.Content)
		h.raw(`</div><p><a href="/">Back to all posts</a></p></article>`)
		jsonLD(h, BlogPostingJsonLD(p.Site, post))
	})
}

// Login renders the admin login form.
func Login(p Page) templ.Component {
	return layout(p, "Login", func(h *htmlWriter) {
		h.raw(`<section class="form"><h1>Admin login</h1><form method="post" action="/login/">`)
		csrfField(h, p.CSRF)
		h.raw(`<label>Username <input type="text" name="username" autocomplete="username" required></label>`)
		h.raw(`<label>Password <input type="password" name="password" autocomplete="current-password" required></label>`)
		h.raw(`<button type="submit">Log in</button></form></section>`)
	})
}

// NewPost renders the post authoring form.
func NewPost(p Page) templ.Component {
	return layout(p, "New post", func(h *htmlWriter) {
		h.raw(`<section class="form"><h1>New post</h1>`)
		if !p.Admin {
			h.raw(`<p class="note"><a href="/login/">Log in</a> as admin to publish.</p>`)
		}
		h.raw(`<form method="post" action="/new_post/" enctype="multipart/form-data">`)
		csrfField(h, p.CSRF)
		h.raw(`<label>Title <input type="text" name="title" required></label>`)
		h.raw(`<label>Body <textarea name="body" rows="14" required></textarea></label>`)
		h.raw(`<p class="hint">Allowed: p, b, strong, i, em, ul, ol, li, a, h1–h3, blockquote.</p>`)
		h.raw(`<label>Thumbnail <input type="file" name="thumbnail" accept=".png,.jpg,.jpeg,.gif"></label>`)
		h.raw(`<label>Video <input type="file" name="video" accept=".mp4,.webm"></label>`)
		h.raw(`<label>Audio <input type="file" name="audio" accept=".mp3,.wav"></label>`)
		h.raw(`<button type="submit">Publish</button></form></section>`)
	})
}

// Chat renders the client-side chat page. Messages never leave the browser.
func Chat(p Page) templ.Component {
	return layout(p, "Chat", func(h *htmlWriter) {
		h.raw(`<section class="chat"><h1>Chat</h1>`)
		if p.Username != "" {
			h.raw(`<p class="note">Chatting as `)
			h.text(p.Username)
			h.raw(`</p>`)
		}
		h.raw(`<div id="chat-box" class="chat-box"></div>`)
		h.raw(`<form class="chat-form" onsubmit="sendMessage(); return false;">`)
		h.raw(`<input id="msg" type="text" autocomplete="off" placeholder="Say something">`)
		h.raw(`<button type="submit">Send</button></form></section>`)
		h.raw(`<script src="/public/chat.js"></script>`)
	})
}

// Project renders the static project page.
func Project(p Page) templ.Component {
	return layout(p, "Project", func(h *htmlWriter) {
		h.raw(`<section class="project"><h1>Project</h1>`)
		if p.Site.Description != "" {
			h.raw(`<p>`)
			h.text(p.Site.Description)
			h.raw(`</p>`)
		}
		h.raw(`<p>Posts are stored as plain files and the whole site can be frozen into static pages.</p></section>`)
	})
}

// NotFound renders the 404 page.
func NotFound(p Page) templ.Component {
	return layout(p, "Not found", func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>Page not found</h1><p><a href="/">Go home</a></p></section>`)
	})
}

// Forbidden renders the page shown when the store denies access.
func Forbidden(p Page) templ.Component {
	return layout(p, "Access denied", func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>Access denied</h1><p><a href="/login/">Log in</a></p></section>`)
	})
}

// ServerError renders the 500 page.
func ServerError(p Page) templ.Component {
	return layout(p, "Error", func(h *htmlWriter) {
		h.raw(`<section class="error"><h1>Something went wrong</h1><p>Please try again later.</p></section>`)
	})
}
