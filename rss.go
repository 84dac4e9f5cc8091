package flatpress

import (
	"encoding/xml"
	"net/http"
	"slices"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/eringen/flatpress/poststore"
)

type rssXML struct {
	XMLName xml.Name   `xml:"rss"`
	Version string     `xml:"version,attr"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Title       string    `xml:"title"`
	Link        string    `xml:"link"`
	Description string    `xml:"description"`
	Items       []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// renderRSS writes the feed with the most recently modified posts first.
func (a *App) renderRSS(c echo.Context, posts []poststore.Summary) error {
	base := a.Config.URL
	sorted := slices.Clone(posts)
	slices.SortStableFunc(sorted, func(x, y poststore.Summary) int {
		return y.ModTime.Compare(x.ModTime)
	})
	items := make([]rssItem, 0, len(sorted))
	for _, p := range sorted {
		postURL := BuildURL(base, "post", p.Name)
		items = append(items, rssItem{
			Title:       p.Title,
			Link:        postURL,
			Description: p.Snippet,
			PubDate:     p.ModTime.Format(time.RFC1123Z),
			GUID:        postURL,
		})
	}
	feed := rssXML{
		Version: "2.0",
		Channel: rssChannel{
			Title:       a.Config.Name,
			Link:        BuildURL(base),
			Description: a.Config.Description,
			Items:       items,
		},
	}
	c.Response().Header().Set(echo.HeaderContentType, "application/rss+xml; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	c.Response().Write([]byte(xml.Header))
	return xml.NewEncoder(c.Response()).Encode(feed)
}
