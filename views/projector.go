package views

import "github.com/eringen/flatpress/poststore"

// ProjectListing shapes store summaries into homepage entries, keeping
// their order.
func ProjectListing(posts []poststore.Summary) []ListingEntry {
	entries := make([]ListingEntry, 0, len(posts))
	for _, p := range posts {
		entries = append(entries, ListingEntry{
			Name:      p.Name,
			Title:     p.Title,
			Snippet:   p.Snippet,
			Thumbnail: p.Thumbnail,
			Video:     p.Video,
			Audio:     p.Audio,
			Date:      p.Date,
		})
	}
	return entries
}

// ProjectDetail shapes a stored post into a post page entry.
func ProjectDetail(post poststore.Detail) DetailEntry {
	return DetailEntry{
		Name:      post.Name,
		Title:     post.Title,
		Content:   post.Body,
		Thumbnail: post.Thumbnail,
		Video:     post.Video,
		Audio:     post.Audio,
		Date:      post.Date,
	}
}
