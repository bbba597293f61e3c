package models

import "time"

type Video struct {
	ID              string     `db:"id"`
	Title           *string    `db:"title"`
	Description     *string    `db:"description"`
	ChannelID       *string    `db:"channel_id"`
	PublishedAt     *time.Time `db:"published_at"`
	DurationSeconds *int       `db:"duration_seconds"`
	Thumbnail       *string    `db:"thumbnail"`
	IsAvailable     bool       `db:"is_available"`
	CreatedAt       time.Time  `db:"created_at"`
	UpdatedAt       time.Time  `db:"updated_at"`
}

// Pick is a sampled video joined with its channel title.
type Pick struct {
	Video
	ChannelTitle *string `db:"channel_title"`
}
