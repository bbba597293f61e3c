package tasks

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeSyncPlaylist     = "playlist:sync"
	TypeSyncAllPlaylists = "playlists:sync_all"
)

type SyncPlaylistTaskPayload struct {
	PlaylistID     string
	FetchDurations bool
}

func NewSyncPlaylistTask(playlistID string, fetchDurations bool) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncPlaylistTaskPayload{
		PlaylistID:     playlistID,
		FetchDurations: fetchDurations,
	})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSyncPlaylist, payload), nil
}

type SyncAllPlaylistsTaskPayload struct {
	FetchDurations bool
}

func NewSyncAllPlaylistsTask(fetchDurations bool) (*asynq.Task, error) {
	payload, err := json.Marshal(SyncAllPlaylistsTaskPayload{FetchDurations: fetchDurations})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeSyncAllPlaylists, payload), nil
}
