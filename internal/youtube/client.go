// Package youtube talks to the YouTube Data API v3 and normalizes its
// responses into the records the sync engine works with.
package youtube

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"
	"yt-blindpicks/internal/models"
	"yt-blindpicks/internal/retry"
)

const (
	// PageSize is the largest page the playlistItems endpoint serves.
	PageSize = 50
	// DefaultMaxPages bounds one listing to 2500 items. Larger playlists
	// are truncated and reported as such.
	DefaultMaxPages = 50

	maxIDsPerRequest = 50
)

// Config controls how the client reaches the API.
type Config struct {
	APIKey string
	// Endpoint overrides the API base URL.
	Endpoint string
	// Timeout bounds every single HTTP call. Zero disables it.
	Timeout time.Duration
	// RequestsPerSecond paces outgoing calls. Zero disables pacing.
	RequestsPerSecond float64
	MaxPages          int
	Retry             retry.Config
}

// PlaylistItemRecord is one video observed in a playlist listing.
type PlaylistItemRecord struct {
	VideoID      string
	Title        *string
	Description  *string
	ChannelID    *string
	ChannelTitle *string
	PublishedAt  *time.Time
	Thumbnail    *string
	Position     *int
	AddedAt      *time.Time
}

// PlaylistItems is the result of a full playlist listing.
type PlaylistItems struct {
	Items []PlaylistItemRecord
	// ChangeToken is the entity tag of the first page.
	ChangeToken string
	// NotModified is set when the supplied change token still matched.
	// Items is empty in that case and says nothing about the playlist size.
	NotModified bool
	// Truncated is set when the page cap stopped pagination early.
	Truncated bool
}

// Client is the remote source client.
type Client struct {
	svc      *yt.Service
	limiter  *rate.Limiter
	timeout  time.Duration
	maxPages int
	retry    retry.Config
	log      logrus.FieldLogger
}

// NewClient builds a client. Extra options are applied after the ones
// derived from cfg.
func NewClient(ctx context.Context, cfg Config, logger logrus.FieldLogger, opts ...option.ClientOption) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("youtube api key is required")
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.Endpoint))
	}
	clientOpts = append(clientOpts, opts...)

	svc, err := yt.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create youtube service: %w", err)
	}

	c := &Client{
		svc:      svc,
		timeout:  cfg.Timeout,
		maxPages: cfg.MaxPages,
		retry:    cfg.Retry,
		log:      logger,
	}
	if c.maxPages <= 0 {
		c.maxPages = DefaultMaxPages
	}
	if cfg.RequestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}
	return c, nil
}

// do runs one API call under pacing, the per-call timeout and the retry policy.
func (c *Client) do(ctx context.Context, fn func(ctx context.Context) error) error {
	return retry.Do(ctx, c.retry, IsRetryable, func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}
		if c.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, c.timeout)
			defer cancel()
		}
		return translateError(fn(ctx))
	})
}

// FetchAllPlaylistItems pages through the whole playlist. When changeToken
// is non-empty it is sent as If-None-Match with the first page; a 304
// answer yields NotModified with no items and the token echoed back.
func (c *Client) FetchAllPlaylistItems(ctx context.Context, playlistID, changeToken string) (*PlaylistItems, error) {
	out := &PlaylistItems{}
	pageToken := ""

	for page := 0; page < c.maxPages; page++ {
		var resp *yt.PlaylistItemListResponse
		notModified := false

		err := c.do(ctx, func(ctx context.Context) error {
			call := c.svc.PlaylistItems.List([]string{"snippet", "contentDetails"}).
				PlaylistId(playlistID).
				MaxResults(PageSize).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			} else if changeToken != "" {
				call = call.IfNoneMatch(changeToken)
			}

			r, err := call.Do()
			if googleapi.IsNotModified(err) {
				notModified = true
				return nil
			}
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list items of playlist %s: %w", playlistID, err)
		}
		if notModified {
			return &PlaylistItems{ChangeToken: changeToken, NotModified: true}, nil
		}

		if page == 0 {
			out.ChangeToken = resp.ServerResponse.Header.Get("ETag")
			if out.ChangeToken == "" {
				out.ChangeToken = resp.Etag
			}
		}

		for _, item := range resp.Items {
			if rec, ok := toItemRecord(item); ok {
				out.Items = append(out.Items, rec)
			}
		}

		pageToken = resp.NextPageToken
		if pageToken == "" {
			return out, nil
		}
	}

	out.Truncated = true
	c.log.WithFields(logrus.Fields{
		"playlist_id": playlistID,
		"max_pages":   c.maxPages,
		"items":       len(out.Items),
	}).Warn("playlist listing truncated at page cap")
	return out, nil
}

func toItemRecord(item *yt.PlaylistItem) (PlaylistItemRecord, bool) {
	s := item.Snippet
	if s == nil || s.ResourceId == nil || s.ResourceId.VideoId == "" {
		return PlaylistItemRecord{}, false
	}

	rec := PlaylistItemRecord{
		VideoID:      s.ResourceId.VideoId,
		Title:        optional(s.Title),
		Description:  optional(s.Description),
		ChannelID:    optional(s.VideoOwnerChannelId),
		ChannelTitle: optional(s.VideoOwnerChannelTitle),
		Thumbnail:    bestThumbnail(s.Thumbnails),
		AddedAt:      parseTime(s.PublishedAt),
	}
	if rec.ChannelID == nil {
		rec.ChannelID = optional(s.ChannelId)
		rec.ChannelTitle = optional(s.ChannelTitle)
	}

	pos := int(s.Position)
	rec.Position = &pos

	rec.PublishedAt = rec.AddedAt
	if cd := item.ContentDetails; cd != nil {
		if t := parseTime(cd.VideoPublishedAt); t != nil {
			rec.PublishedAt = t
		}
	}
	return rec, true
}

func bestThumbnail(t *yt.ThumbnailDetails) *string {
	if t == nil {
		return nil
	}
	for _, th := range []*yt.Thumbnail{t.Maxres, t.High, t.Medium, t.Default} {
		if th != nil && th.Url != "" {
			return optional(th.Url)
		}
	}
	return nil
}

// FetchVideoDurationsSeconds looks up durations in batches of 50 ids.
// Videos the API does not return are absent from the map.
func (c *Client) FetchVideoDurationsSeconds(ctx context.Context, videoIDs []string) (map[string]int, error) {
	result := make(map[string]int, len(videoIDs))
	ids := dedupe(videoIDs)

	for start := 0; start < len(ids); start += maxIDsPerRequest {
		end := min(start+maxIDsPerRequest, len(ids))
		chunk := ids[start:end]

		var resp *yt.VideoListResponse
		err := c.do(ctx, func(ctx context.Context) error {
			r, err := c.svc.Videos.List([]string{"contentDetails"}).Id(chunk...).Context(ctx).Do()
			if err != nil {
				return err
			}
			resp = r
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list video durations: %w", err)
		}

		for _, v := range resp.Items {
			if v.Id == "" || v.ContentDetails == nil || v.ContentDetails.Duration == "" {
				continue
			}
			result[v.Id] = ParseISODuration(v.ContentDetails.Duration)
		}
	}
	return result, nil
}

// FetchPlaylistMeta returns the playlist title and owning channel. A
// playlist the API does not know yields an empty record, not an error.
func (c *Client) FetchPlaylistMeta(ctx context.Context, playlistID string) (models.PlaylistMeta, error) {
	var resp *yt.PlaylistListResponse
	err := c.do(ctx, func(ctx context.Context) error {
		r, err := c.svc.Playlists.List([]string{"snippet"}).Id(playlistID).Context(ctx).Do()
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		return models.PlaylistMeta{}, fmt.Errorf("get playlist %s: %w", playlistID, err)
	}

	if len(resp.Items) == 0 || resp.Items[0].Snippet == nil {
		return models.PlaylistMeta{}, nil
	}
	s := resp.Items[0].Snippet
	return models.PlaylistMeta{
		Title:        optional(s.Title),
		ChannelID:    optional(s.ChannelId),
		ChannelTitle: optional(s.ChannelTitle),
	}, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func parseTime(s string) *time.Time {
	if s == "" {
		return nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil
	}
	return &t
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
