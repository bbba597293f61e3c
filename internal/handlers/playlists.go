package handlers

import (
	"errors"
	"net/http"

	"yt-blindpicks/internal/youtube"
	"yt-blindpicks/pkg/tasks"
)

// AddPlaylist syncs the playlist named by ?id= (URL or bare id) in the
// request and reports the outcome.
func (h *Handlers) AddPlaylist(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("id")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "Missing playlist URL or ID")
		return
	}

	id, err := youtube.ExtractPlaylistID(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.syncer.SyncPlaylist(r.Context(), id, true)
	if err != nil {
		h.log.WithError(err).WithField("playlist_id", id).Error("playlist sync failed")
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"id":        id,
		"items":     res.Items,
		"flagged":   res.Flagged,
		"truncated": res.Truncated,
	})
}

// SyncAll syncs every known playlist in the request.
func (h *Handlers) SyncAll(w http.ResponseWriter, r *http.Request) {
	synced, total, err := h.syncer.SyncAll(r.Context(), h.opts.FetchDurations)
	if err != nil {
		h.log.WithError(err).Error("sync all failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "synced": synced, "total": total})
}

// EnqueuePlaylist schedules a background sync of ?id= on the worker queue.
func (h *Handlers) EnqueuePlaylist(w http.ResponseWriter, r *http.Request) {
	id, err := youtube.ExtractPlaylistID(r.URL.Query().Get("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	task, err := tasks.NewSyncPlaylistTask(id, h.opts.FetchDurations)
	if err != nil {
		h.log.WithError(err).Error("create sync task failed")
		writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	info, err := h.asynqClient.Enqueue(task)
	if err != nil {
		h.log.WithError(err).WithField("playlist_id", id).Error("enqueue sync task failed")
		writeError(w, http.StatusInternalServerError, "Failed to enqueue sync")
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true, "id": id, "taskId": info.ID})
}

func statusFor(err error) int {
	if errors.Is(err, youtube.ErrInvalidInput) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
