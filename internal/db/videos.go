package db

import (
	"context"

	"yt-blindpicks/internal/models"
)

// UpsertVideo inserts or refreshes a video. Nil fields never overwrite
// stored values, and the video is always marked available again.
func (s *Store) UpsertVideo(ctx context.Context, v models.Video) error {
	query := `
		INSERT INTO videos (id, title, description, channel_id, published_at, duration_seconds, thumbnail, is_available)
		VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
		ON CONFLICT (id) DO UPDATE SET
			title = COALESCE(EXCLUDED.title, videos.title),
			description = COALESCE(EXCLUDED.description, videos.description),
			channel_id = COALESCE(EXCLUDED.channel_id, videos.channel_id),
			published_at = COALESCE(EXCLUDED.published_at, videos.published_at),
			duration_seconds = COALESCE(EXCLUDED.duration_seconds, videos.duration_seconds),
			thumbnail = COALESCE(EXCLUDED.thumbnail, videos.thumbnail),
			is_available = TRUE,
			updated_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query,
		v.ID, v.Title, v.Description, v.ChannelID, v.PublishedAt, v.DurationSeconds, v.Thumbnail)
	return storeErr("upsert video", err)
}
