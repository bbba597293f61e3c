package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/sirupsen/logrus"
	"yt-blindpicks/internal/syncer"
	"yt-blindpicks/internal/youtube"
	"yt-blindpicks/pkg/tasks"
)

// Syncer is implemented by *syncer.Engine.
type Syncer interface {
	SyncPlaylist(ctx context.Context, playlistID string, fetchDurations bool) (*syncer.Result, error)
	SyncAll(ctx context.Context, fetchDurations bool) (synced, total int, err error)
}

type TaskHandler struct {
	syncer Syncer
	log    logrus.FieldLogger
}

func NewTaskHandler(s Syncer, logger logrus.FieldLogger) *TaskHandler {
	return &TaskHandler{syncer: s, log: logger}
}

// Register wires every task type into mux.
func (h *TaskHandler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(tasks.TypeSyncPlaylist, h.HandleSyncPlaylistTask)
	mux.HandleFunc(tasks.TypeSyncAllPlaylists, h.HandleSyncAllPlaylistsTask)
}

func (h *TaskHandler) HandleSyncPlaylistTask(ctx context.Context, t *asynq.Task) error {
	var p tasks.SyncPlaylistTaskPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
	}

	id, err := youtube.ExtractPlaylistID(p.PlaylistID)
	if err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}

	res, err := h.syncer.SyncPlaylist(ctx, id, p.FetchDurations)
	if err != nil {
		if errors.Is(err, youtube.ErrInvalidInput) {
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}
		return fmt.Errorf("failed to sync playlist %s: %w", id, err)
	}

	h.log.WithFields(logrus.Fields{
		"playlist_id": id,
		"items":       res.Items,
		"flagged":     res.Flagged,
	}).Info("sync task done")
	return nil
}

func (h *TaskHandler) HandleSyncAllPlaylistsTask(ctx context.Context, t *asynq.Task) error {
	p := tasks.SyncAllPlaylistsTaskPayload{FetchDurations: true}
	if len(t.Payload()) > 0 {
		if err := json.Unmarshal(t.Payload(), &p); err != nil {
			return fmt.Errorf("failed to unmarshal task payload: %v: %w", err, asynq.SkipRetry)
		}
	}

	h.log.Info("Syncing all playlists...")
	synced, total, err := h.syncer.SyncAll(ctx, p.FetchDurations)
	if err != nil {
		return fmt.Errorf("failed to sync all playlists: %w", err)
	}
	h.log.WithFields(logrus.Fields{"synced": synced, "total": total}).Info("Finished syncing all playlists.")
	return nil
}
