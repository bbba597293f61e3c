package feed

import (
	"fmt"
	"net/http"
	"time"

	"github.com/eduncan911/podcast"
	"yt-blindpicks/internal/models"
	"yt-blindpicks/internal/picks"
)

// BaseURL derives the public base URL of the request, honoring a proxy's
// X-Forwarded-Proto.
func BaseURL(r *http.Request) string {
	scheme := r.URL.Scheme
	if scheme == "" {
		scheme = "https"
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}

// GenerateRSS renders picks as an RSS 2.0 feed whose items link to the
// watch pages on watchHost.
func GenerateRSS(selfURL, watchHost string, items []models.Pick, now time.Time) (string, error) {
	p := podcast.New(
		"Blind picks",
		selfURL,
		"Random videos from mirrored playlists.",
		&now, &now,
	)

	for _, pick := range items {
		title := deref(pick.Title, pick.ID)
		description := deref(pick.Description, "")
		if description == "" {
			description = title
		}
		if pick.ChannelTitle != nil {
			description = fmt.Sprintf("%s\n\n%s", *pick.ChannelTitle, description)
		}

		item := podcast.Item{
			Title:       title,
			Link:        picks.WatchURL(watchHost, pick.ID),
			Description: description,
			PubDate:     pick.PublishedAt,
		}
		if pick.DurationSeconds != nil {
			item.AddDuration(int64(*pick.DurationSeconds))
		}
		if pick.Thumbnail != nil {
			item.AddImage(*pick.Thumbnail)
		}
		if _, err := p.AddItem(item); err != nil {
			return "", fmt.Errorf("add feed item %s: %w", pick.ID, err)
		}
	}

	return p.String(), nil
}

func deref(s *string, fallback string) string {
	if s == nil || *s == "" {
		return fallback
	}
	return *s
}
