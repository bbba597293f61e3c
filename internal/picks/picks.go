// Package picks serves uniform random samples of available videos.
package picks

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"yt-blindpicks/internal/models"
)

// DefaultMax caps a single request.
const DefaultMax = 50

// Store is the read side of db.Store used for sampling.
type Store interface {
	RandomVideos(ctx context.Context, limit int) ([]models.Pick, error)
	RandomVideosFromPlaylists(ctx context.Context, playlistIDs []string, limit int) ([]models.Pick, error)
}

type Service struct {
	store Store
	max   int
}

// NewService returns a sampling service. max <= 0 means DefaultMax.
func NewService(store Store, max int) *Service {
	if max <= 0 {
		max = DefaultMax
	}
	return &Service{store: store, max: max}
}

// Max is the largest count a single call honors.
func (s *Service) Max() int { return s.max }

// RandomPicksAll returns up to count available videos, chosen at random.
func (s *Service) RandomPicksAll(ctx context.Context, count int) ([]models.Pick, error) {
	count = s.clamp(count)
	if count == 0 {
		return []models.Pick{}, nil
	}
	picks, err := s.store.RandomVideos(ctx, count)
	if err != nil {
		return nil, fmt.Errorf("random picks: %w", err)
	}
	return picks, nil
}

// RandomPicksFromPlaylists is RandomPicksAll limited to members of the
// given playlists. An empty id set yields no picks.
func (s *Service) RandomPicksFromPlaylists(ctx context.Context, playlistIDs []string, count int) ([]models.Pick, error) {
	ids := normalizeIDs(playlistIDs)
	count = s.clamp(count)
	if count == 0 || len(ids) == 0 {
		return []models.Pick{}, nil
	}
	picks, err := s.store.RandomVideosFromPlaylists(ctx, ids, count)
	if err != nil {
		return nil, fmt.Errorf("random picks from playlists: %w", err)
	}
	return picks, nil
}

func (s *Service) clamp(count int) int {
	if count < 0 {
		return 0
	}
	return min(count, s.max)
}

func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// WatchURL is the canonical watch link for a video.
func WatchURL(host, videoID string) string {
	u := url.URL{
		Scheme:   "https",
		Host:     host,
		Path:     "/watch",
		RawQuery: url.Values{"v": {videoID}}.Encode(),
	}
	return u.String()
}
