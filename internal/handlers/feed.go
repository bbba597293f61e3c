package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"yt-blindpicks/internal/feed"
	"yt-blindpicks/internal/models"
	"yt-blindpicks/internal/picks"
)

const defaultPickCount = 3

type pickJSON struct {
	VideoID         string     `json:"videoId"`
	URL             string     `json:"url"`
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Thumbnail       *string    `json:"thumbnail"`
	ChannelTitle    *string    `json:"channelTitle"`
	PublishedAt     *time.Time `json:"publishedAt"`
	DurationSeconds *int       `json:"durationSeconds"`
}

// GetBlindPicks serves random picks as json (default), links or rss.
// ?playlists=a,b restricts the pool to those playlists.
func (h *Handlers) GetBlindPicks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	count, err := strconv.Atoi(q.Get("count"))
	if err != nil || count <= 0 {
		count = defaultPickCount
	}
	count = min(count, h.opts.PicksMax)

	format := strings.ToLower(q.Get("format"))
	if format == "" {
		format = "json"
	}
	if format != "json" && format != "links" && format != "rss" {
		writeError(w, http.StatusBadRequest, "format must be json, links or rss")
		return
	}

	var playlistIDs []string
	for _, id := range strings.Split(q.Get("playlists"), ",") {
		if id = strings.TrimSpace(id); id != "" {
			playlistIDs = append(playlistIDs, id)
		}
	}

	var rows []models.Pick
	if len(playlistIDs) > 0 {
		rows, err = h.picker.RandomPicksFromPlaylists(r.Context(), playlistIDs, count)
	} else {
		rows, err = h.picker.RandomPicksAll(r.Context(), count)
	}
	if err != nil {
		h.log.WithError(err).Error("random picks failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	switch format {
	case "links":
		links := make([]string, 0, len(rows))
		for _, p := range rows {
			links = append(links, picks.WatchURL(h.opts.WatchHost, p.ID))
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(strings.Join(links, "\n")))

	case "rss":
		self := feed.BaseURL(r) + r.URL.RequestURI()
		rss, err := feed.GenerateRSS(self, h.opts.WatchHost, rows, time.Now())
		if err != nil {
			h.log.WithError(err).Error("generate rss failed")
			writeError(w, http.StatusInternalServerError, "Internal server error")
			return
		}
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(rss))

	default:
		out := make([]pickJSON, 0, len(rows))
		for _, p := range rows {
			out = append(out, pickJSON{
				VideoID:         p.ID,
				URL:             picks.WatchURL(h.opts.WatchHost, p.ID),
				Title:           p.Title,
				Description:     p.Description,
				Thumbnail:       p.Thumbnail,
				ChannelTitle:    p.ChannelTitle,
				PublishedAt:     p.PublishedAt,
				DurationSeconds: p.DurationSeconds,
			})
		}
		writeJSON(w, http.StatusOK, map[string]any{"count": len(out), "picks": out})
	}
}
