package db

import (
	"context"
	"fmt"

	"github.com/lib/pq"
	"yt-blindpicks/internal/models"
)

// UpsertPlaylistItem records the item with its observed presence. A
// present item also marks its video available again, so a concurrent
// MarkMissing from another playlist cannot leave it flagged.
func (s *Store) UpsertPlaylistItem(ctx context.Context, item models.PlaylistItem) error {
	query := `
		WITH item AS (
			INSERT INTO playlist_items (playlist_id, video_id, position, added_at, present)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (playlist_id, video_id) DO UPDATE SET
				position = COALESCE(EXCLUDED.position, playlist_items.position),
				added_at = COALESCE(EXCLUDED.added_at, playlist_items.added_at),
				present = EXCLUDED.present,
				updated_at = NOW()
			RETURNING video_id, present
		)
		UPDATE videos
		SET is_available = TRUE, updated_at = NOW()
		FROM item
		WHERE videos.id = item.video_id AND item.present AND NOT videos.is_available
	`
	_, err := s.db.ExecContext(ctx, query, item.PlaylistID, item.VideoID, item.Position, item.AddedAt, item.Present)
	return storeErr("upsert playlist item", err)
}

// PlaylistVideoIDs returns the ids of every video ever recorded in the playlist.
func (s *Store) PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error) {
	var ids []string
	err := s.db.SelectContext(ctx, &ids, `SELECT video_id FROM playlist_items WHERE playlist_id = $1`, playlistID)
	if err != nil {
		return nil, storeErr("list playlist items", err)
	}
	return ids, nil
}

// MarkMissing flags the given items of a playlist as no longer present and
// marks their videos unavailable unless another playlist still lists them.
// Rows are never deleted. It returns the number of videos flagged.
func (s *Store) MarkMissing(ctx context.Context, playlistID string, videoIDs []string) (int64, error) {
	if len(videoIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, storeErr("mark missing", fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		UPDATE playlist_items
		SET present = FALSE, updated_at = NOW()
		WHERE playlist_id = $1 AND video_id = ANY($2)`,
		playlistID, pq.Array(videoIDs))
	if err != nil {
		return 0, storeErr("mark missing items", err)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE videos
		SET is_available = FALSE, updated_at = NOW()
		WHERE id = ANY($1)
			AND NOT EXISTS (
				SELECT 1 FROM playlist_items pi WHERE pi.video_id = videos.id AND pi.present
			)`,
		pq.Array(videoIDs))
	if err != nil {
		return 0, storeErr("mark videos unavailable", err)
	}

	flagged, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("mark videos unavailable", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, storeErr("mark missing", fmt.Errorf("failed to commit: %w", err))
	}
	return flagged, nil
}
