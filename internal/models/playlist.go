package models

import "time"

// Playlist is a remote playlist mirrored locally by its remote identifier.
type Playlist struct {
	ID           string     `db:"id"`
	Title        *string    `db:"title"`
	ChannelID    *string    `db:"channel_id"`
	ETag         *string    `db:"etag"`
	ItemCount    int        `db:"item_count"`
	LastSyncedAt *time.Time `db:"last_synced_at"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// PlaylistMeta holds the fields refreshed from the remote playlist listing.
type PlaylistMeta struct {
	Title        *string
	ChannelID    *string
	ChannelTitle *string
}
