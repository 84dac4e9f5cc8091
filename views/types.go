package views

// SiteConfig holds the site-wide settings templates need.
type SiteConfig struct {
	Name        string // SITE_NAME  (default "Blog")
	URL         string // SITE_URL   (default "http://localhost:3000")
	Description string // SITE_DESCRIPTION
	Author      string // SITE_AUTHOR
	UploadURL   string // UPLOAD_URL_PATH, where uploaded media is served
}

// Page carries the per-request state every page renders: flash notices,
// who is logged in, and the CSRF token for forms.
type Page struct {
	Site     SiteConfig
	Flashes  []string
	Admin    bool
	Username string
	CSRF     string
}

// ListingEntry is one post on the homepage.
type ListingEntry struct {
	Name      string
	Title     string
	Snippet   string
	Thumbnail string
	Video     string
	Audio     string
	Date      string
}

// DetailEntry is a single post page. Content is sanitized markup,
// heading included, and is rendered as-is.
type DetailEntry struct {
	Name      string
	Title     string
	Content   string
	Thumbnail string
	Video     string
	Audio     string
	Date      string
}
