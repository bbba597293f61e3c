package models

import "time"

// PlaylistItem links one video to one playlist. Present is false once the
// video stopped showing up in the playlist's latest full listing.
type PlaylistItem struct {
	PlaylistID string     `db:"playlist_id"`
	VideoID    string     `db:"video_id"`
	Position   *int       `db:"position"`
	AddedAt    *time.Time `db:"added_at"`
	Present    bool       `db:"present"`
	CreatedAt  time.Time  `db:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at"`
}
