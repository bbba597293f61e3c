// Package syncer reconciles the local store with remote playlists.
package syncer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"yt-blindpicks/internal/models"
	"yt-blindpicks/internal/youtube"
)

// Store is the persistence the engine depends on. *db.Store implements it.
type Store interface {
	LockPlaylist(ctx context.Context, playlistID string) (func(), error)
	EnsurePlaylist(ctx context.Context, id string) error
	GetPlaylist(ctx context.Context, id string) (*models.Playlist, error)
	UpdatePlaylistMeta(ctx context.Context, id string, meta models.PlaylistMeta) error
	RecordPlaylistSync(ctx context.Context, id string, etag *string, itemCount int, syncedAt time.Time) error
	ListPlaylistIDs(ctx context.Context) ([]string, error)
	UpsertChannel(ctx context.Context, id string, title *string) error
	UpsertVideo(ctx context.Context, v models.Video) error
	UpsertPlaylistItem(ctx context.Context, item models.PlaylistItem) error
	PlaylistVideoIDs(ctx context.Context, playlistID string) ([]string, error)
	MarkMissing(ctx context.Context, playlistID string, videoIDs []string) (int64, error)
}

// Source is the remote side. *youtube.Client implements it.
type Source interface {
	FetchAllPlaylistItems(ctx context.Context, playlistID, changeToken string) (*youtube.PlaylistItems, error)
	FetchVideoDurationsSeconds(ctx context.Context, videoIDs []string) (map[string]int, error)
	FetchPlaylistMeta(ctx context.Context, playlistID string) (models.PlaylistMeta, error)
}

// Result summarizes one playlist sync.
type Result struct {
	PlaylistID  string
	Items       int
	Flagged     int64
	NotModified bool
	Truncated   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithIncremental makes the engine send the stored change token, so an
// unchanged playlist costs a single request.
func WithIncremental(on bool) Option {
	return func(e *Engine) { e.incremental = on }
}

// WithClock overrides the time source used for sync bookkeeping.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the sync engine.
type Engine struct {
	store       Store
	source      Source
	log         logrus.FieldLogger
	incremental bool
	now         func() time.Time
}

func New(store Store, source Source, logger logrus.FieldLogger, opts ...Option) *Engine {
	e := &Engine{
		store:  store,
		source: source,
		log:    logger,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SyncPlaylist brings the stored view of one playlist in line with the
// remote listing. Syncs of the same playlist are serialized by a store lock.
func (e *Engine) SyncPlaylist(ctx context.Context, playlistID string, fetchDurations bool) (*Result, error) {
	log := e.log.WithFields(logrus.Fields{
		"playlist_id": playlistID,
		"run_id":      uuid.NewString(),
	})
	started := e.now()

	unlock, err := e.store.LockPlaylist(ctx, playlistID)
	if err != nil {
		return nil, fmt.Errorf("lock playlist %s: %w", playlistID, err)
	}
	defer unlock()

	if err := e.store.EnsurePlaylist(ctx, playlistID); err != nil {
		return nil, fmt.Errorf("ensure playlist %s: %w", playlistID, err)
	}

	token := ""
	if e.incremental {
		if p, err := e.store.GetPlaylist(ctx, playlistID); err == nil && p.ETag != nil {
			token = *p.ETag
		}
	}

	listing, err := e.source.FetchAllPlaylistItems(ctx, playlistID, token)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist %s: %w", playlistID, err)
	}

	e.refreshMeta(ctx, log, playlistID)

	res := &Result{PlaylistID: playlistID, NotModified: listing.NotModified, Truncated: listing.Truncated}
	if listing.NotModified {
		log.Info("playlist not modified since last sync")
		return res, e.recordSync(ctx, playlistID, listing.ChangeToken, -1)
	}

	var durations map[string]int
	if fetchDurations && len(listing.Items) > 0 {
		ids := make([]string, 0, len(listing.Items))
		for _, it := range listing.Items {
			ids = append(ids, it.VideoID)
		}
		durations, err = e.source.FetchVideoDurationsSeconds(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("fetch durations for playlist %s: %w", playlistID, err)
		}
	}

	observed := make(map[string]struct{}, len(listing.Items))
	for _, it := range listing.Items {
		if err := e.storeItem(ctx, playlistID, it, durations); err != nil {
			return nil, err
		}
		observed[it.VideoID] = struct{}{}
	}
	res.Items = len(observed)

	if listing.Truncated {
		log.Warn("listing truncated, skipping removal detection")
	} else {
		existing, err := e.store.PlaylistVideoIDs(ctx, playlistID)
		if err != nil {
			return nil, fmt.Errorf("load items of playlist %s: %w", playlistID, err)
		}
		var missing []string
		for _, id := range existing {
			if _, ok := observed[id]; !ok {
				missing = append(missing, id)
			}
		}
		res.Flagged, err = e.store.MarkMissing(ctx, playlistID, missing)
		if err != nil {
			return nil, fmt.Errorf("flag missing videos of playlist %s: %w", playlistID, err)
		}
	}

	if err := e.recordSync(ctx, playlistID, listing.ChangeToken, res.Items); err != nil {
		return nil, err
	}

	log.WithFields(logrus.Fields{
		"items":     res.Items,
		"flagged":   res.Flagged,
		"truncated": res.Truncated,
		"took":      e.now().Sub(started).String(),
	}).Info("playlist synced")
	return res, nil
}

// refreshMeta updates title and owner. Failures never fail the sync.
func (e *Engine) refreshMeta(ctx context.Context, log logrus.FieldLogger, playlistID string) {
	meta, err := e.source.FetchPlaylistMeta(ctx, playlistID)
	if err != nil {
		log.WithError(err).Warn("failed to fetch playlist metadata")
		return
	}
	if meta.ChannelID != nil {
		if err := e.store.UpsertChannel(ctx, *meta.ChannelID, meta.ChannelTitle); err != nil {
			log.WithError(err).Warn("failed to store playlist channel")
			return
		}
	}
	if err := e.store.UpdatePlaylistMeta(ctx, playlistID, meta); err != nil {
		log.WithError(err).Warn("failed to store playlist metadata")
	}
}

func (e *Engine) storeItem(ctx context.Context, playlistID string, it youtube.PlaylistItemRecord, durations map[string]int) error {
	if it.ChannelID != nil {
		if err := e.store.UpsertChannel(ctx, *it.ChannelID, it.ChannelTitle); err != nil {
			return fmt.Errorf("store channel %s: %w", *it.ChannelID, err)
		}
	}

	v := models.Video{
		ID:          it.VideoID,
		Title:       it.Title,
		Description: it.Description,
		ChannelID:   it.ChannelID,
		PublishedAt: it.PublishedAt,
		Thumbnail:   it.Thumbnail,
		IsAvailable: true,
	}
	if d, ok := durations[it.VideoID]; ok {
		v.DurationSeconds = &d
	}
	if err := e.store.UpsertVideo(ctx, v); err != nil {
		return fmt.Errorf("store video %s: %w", it.VideoID, err)
	}

	err := e.store.UpsertPlaylistItem(ctx, models.PlaylistItem{
		PlaylistID: playlistID,
		VideoID:    it.VideoID,
		Position:   it.Position,
		AddedAt:    it.AddedAt,
		Present:    true,
	})
	if err != nil {
		return fmt.Errorf("store item %s of playlist %s: %w", it.VideoID, playlistID, err)
	}
	return nil
}

// recordSync stores the change token and sync time. A negative itemCount
// keeps the stored count.
func (e *Engine) recordSync(ctx context.Context, playlistID, changeToken string, itemCount int) error {
	var etag *string
	if changeToken != "" {
		etag = &changeToken
	}
	if itemCount < 0 {
		itemCount = 0
		if p, err := e.store.GetPlaylist(ctx, playlistID); err == nil {
			itemCount = p.ItemCount
		}
	}
	if err := e.store.RecordPlaylistSync(ctx, playlistID, etag, itemCount, e.now()); err != nil {
		return fmt.Errorf("record sync of playlist %s: %w", playlistID, err)
	}
	return nil
}

// SyncAll syncs every known playlist one at a time. A failing playlist is
// logged and skipped; it returns how many succeeded out of how many tried.
func (e *Engine) SyncAll(ctx context.Context, fetchDurations bool) (synced, total int, err error) {
	ids, err := e.store.ListPlaylistIDs(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list playlists: %w", err)
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return synced, len(ids), ctx.Err()
		}
		if _, err := e.SyncPlaylist(ctx, id, fetchDurations); err != nil {
			e.log.WithError(err).WithField("playlist_id", id).Error("playlist sync failed")
			continue
		}
		synced++
	}

	e.log.WithFields(logrus.Fields{"synced": synced, "total": len(ids)}).Info("sync all finished")
	return synced, len(ids), nil
}
