package db

import (
	"context"

	"github.com/lib/pq"
	"yt-blindpicks/internal/models"
)

const pickColumns = `v.id, v.title, v.description, v.channel_id, v.published_at, v.duration_seconds,
	v.thumbnail, v.is_available, v.created_at, v.updated_at, c.title AS channel_title`

// RandomVideos returns up to limit distinct available videos in random order.
func (s *Store) RandomVideos(ctx context.Context, limit int) ([]models.Pick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM videos v
		LEFT JOIN channels c ON c.id = v.channel_id
		WHERE v.is_available = TRUE
		ORDER BY random()
		LIMIT $1
	`
	picks := []models.Pick{}
	if err := s.db.SelectContext(ctx, &picks, query, limit); err != nil {
		return nil, storeErr("random videos", err)
	}
	return picks, nil
}

// RandomVideosFromPlaylists is RandomVideos restricted to current members of
// any of the given playlists. A video listed in several of them is returned once.
func (s *Store) RandomVideosFromPlaylists(ctx context.Context, playlistIDs []string, limit int) ([]models.Pick, error) {
	query := `
		SELECT ` + pickColumns + `
		FROM videos v
		LEFT JOIN channels c ON c.id = v.channel_id
		WHERE v.is_available = TRUE
			AND v.id IN (
				SELECT pi.video_id FROM playlist_items pi
				WHERE pi.playlist_id = ANY($1) AND pi.present
			)
		ORDER BY random()
		LIMIT $2
	`
	picks := []models.Pick{}
	if err := s.db.SelectContext(ctx, &picks, query, pq.Array(playlistIDs), limit); err != nil {
		return nil, storeErr("random videos from playlists", err)
	}
	return picks, nil
}
