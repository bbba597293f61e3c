package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"
	"yt-blindpicks/internal/models"
	"yt-blindpicks/internal/syncer"
	"yt-blindpicks/pkg/tasks"
)

// Syncer is implemented by *syncer.Engine.
type Syncer interface {
	SyncPlaylist(ctx context.Context, playlistID string, fetchDurations bool) (*syncer.Result, error)
	SyncAll(ctx context.Context, fetchDurations bool) (synced, total int, err error)
}

// Picker is implemented by *picks.Service.
type Picker interface {
	RandomPicksAll(ctx context.Context, count int) ([]models.Pick, error)
	RandomPicksFromPlaylists(ctx context.Context, playlistIDs []string, count int) ([]models.Pick, error)
}

type Options struct {
	WatchHost      string
	FetchDurations bool
	PicksMax       int
}

type Handlers struct {
	syncer      Syncer
	picker      Picker
	asynqClient tasks.TaskEnqueuer
	opts        Options
	log         logrus.FieldLogger
}

func New(s Syncer, p Picker, asynqClient tasks.TaskEnqueuer, opts Options, logger logrus.FieldLogger) *Handlers {
	if opts.WatchHost == "" {
		opts.WatchHost = "www.youtube.com"
	}
	if opts.PicksMax <= 0 {
		opts.PicksMax = 50
	}
	return &Handlers{
		syncer:      s,
		picker:      p,
		asynqClient: asynqClient,
		opts:        opts,
		log:         logger,
	}
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
