package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"yt-blindpicks/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// EnsurePlaylist creates a bare playlist row if it does not exist yet.
func (s *Store) EnsurePlaylist(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO playlists (id) VALUES ($1) ON CONFLICT (id) DO NOTHING`, id)
	return storeErr("ensure playlist", err)
}

// UpdatePlaylistMeta stores the title and owning channel. The channel row
// must already exist.
func (s *Store) UpdatePlaylistMeta(ctx context.Context, id string, meta models.PlaylistMeta) error {
	query := `
		UPDATE playlists
		SET title = COALESCE($2, title), channel_id = COALESCE($3, channel_id), updated_at = NOW()
		WHERE id = $1
	`
	_, err := s.db.ExecContext(ctx, query, id, meta.Title, meta.ChannelID)
	return storeErr("update playlist meta", err)
}

// RecordPlaylistSync stores the bookkeeping of a finished sync. A nil etag
// keeps the previous one.
func (s *Store) RecordPlaylistSync(ctx context.Context, id string, etag *string, itemCount int, syncedAt time.Time) error {
	query := `
		UPDATE playlists
		SET etag = COALESCE($2, etag), item_count = $3, last_synced_at = $4, updated_at = NOW()
		WHERE id = $1
	`
	_, err := s.db.ExecContext(ctx, query, id, etag, itemCount, syncedAt)
	return storeErr("record playlist sync", err)
}

func (s *Store) GetPlaylist(ctx context.Context, id string) (*models.Playlist, error) {
	playlist := &models.Playlist{}
	err := s.db.GetContext(ctx, playlist, `
		SELECT id, title, channel_id, etag, item_count, last_synced_at, created_at, updated_at
		FROM playlists
		WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storeErr("get playlist", ErrNotFound)
	}
	if err != nil {
		return nil, storeErr("get playlist", err)
	}
	return playlist, nil
}

// ListPlaylistIDs returns every known playlist id in a stable order.
func (s *Store) ListPlaylistIDs(ctx context.Context) ([]string, error) {
	var ids []string
	if err := s.db.SelectContext(ctx, &ids, `SELECT id FROM playlists ORDER BY created_at, id`); err != nil {
		return nil, storeErr("list playlists", err)
	}
	return ids, nil
}
