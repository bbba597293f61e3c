package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"yt-blindpicks/internal/syncer"
	"yt-blindpicks/internal/test"
	"yt-blindpicks/pkg/tasks"
)

type mockSyncer struct {
	playlistIDs []string
	durations   []bool
	err         error
	allCalls    int
}

func (m *mockSyncer) SyncPlaylist(ctx context.Context, playlistID string, fetchDurations bool) (*syncer.Result, error) {
	m.playlistIDs = append(m.playlistIDs, playlistID)
	m.durations = append(m.durations, fetchDurations)
	if m.err != nil {
		return nil, m.err
	}
	return &syncer.Result{PlaylistID: playlistID, Items: 2}, nil
}

func (m *mockSyncer) SyncAll(ctx context.Context, fetchDurations bool) (int, int, error) {
	m.allCalls++
	m.durations = append(m.durations, fetchDurations)
	return 1, 2, m.err
}

func mustMarshal(t *testing.T, v interface{}) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return b
}

func TestHandleSyncPlaylistTask(t *testing.T) {
	t.Run("syncs the playlist", func(t *testing.T) {
		s := &mockSyncer{}
		h := NewTaskHandler(s, test.NewLogger())
		task, err := tasks.NewSyncPlaylistTask("PLabc", false)
		require.NoError(t, err)

		require.NoError(t, h.HandleSyncPlaylistTask(context.Background(), task))
		assert.Equal(t, []string{"PLabc"}, s.playlistIDs)
		assert.Equal(t, []bool{false}, s.durations)
	})

	t.Run("accepts a playlist url", func(t *testing.T) {
		s := &mockSyncer{}
		h := NewTaskHandler(s, test.NewLogger())
		task := asynq.NewTask(tasks.TypeSyncPlaylist, mustMarshal(t, tasks.SyncPlaylistTaskPayload{
			PlaylistID: "https://www.youtube.com/playlist?list=PLxyz",
		}))

		require.NoError(t, h.HandleSyncPlaylistTask(context.Background(), task))
		assert.Equal(t, []string{"PLxyz"}, s.playlistIDs)
	})

	t.Run("bad payload is not retried", func(t *testing.T) {
		h := NewTaskHandler(&mockSyncer{}, test.NewLogger())
		err := h.HandleSyncPlaylistTask(context.Background(), asynq.NewTask(tasks.TypeSyncPlaylist, []byte("{")))
		assert.ErrorIs(t, err, asynq.SkipRetry)
	})

	t.Run("bad playlist id is not retried", func(t *testing.T) {
		s := &mockSyncer{}
		h := NewTaskHandler(s, test.NewLogger())
		task, _ := tasks.NewSyncPlaylistTask("not a playlist", true)
		err := h.HandleSyncPlaylistTask(context.Background(), task)
		assert.ErrorIs(t, err, asynq.SkipRetry)
		assert.Empty(t, s.playlistIDs)
	})

	t.Run("sync failures are retried", func(t *testing.T) {
		h := NewTaskHandler(&mockSyncer{err: errors.New("youtube api 503")}, test.NewLogger())
		task, _ := tasks.NewSyncPlaylistTask("PLabc", true)
		err := h.HandleSyncPlaylistTask(context.Background(), task)
		require.Error(t, err)
		assert.NotErrorIs(t, err, asynq.SkipRetry)
	})
}

func TestHandleSyncAllPlaylistsTask(t *testing.T) {
	s := &mockSyncer{}
	h := NewTaskHandler(s, test.NewLogger())

	task, err := tasks.NewSyncAllPlaylistsTask(false)
	require.NoError(t, err)
	require.NoError(t, h.HandleSyncAllPlaylistsTask(context.Background(), task))
	assert.Equal(t, 1, s.allCalls)
	assert.Equal(t, []bool{false}, s.durations)

	require.NoError(t, h.HandleSyncAllPlaylistsTask(context.Background(), asynq.NewTask(tasks.TypeSyncAllPlaylists, nil)))
	assert.Equal(t, []bool{false, true}, s.durations)
}

func TestRegister(t *testing.T) {
	s := &mockSyncer{}
	mux := asynq.NewServeMux()
	NewTaskHandler(s, test.NewLogger()).Register(mux)

	task, _ := tasks.NewSyncPlaylistTask("PLabc", true)
	require.NoError(t, mux.ProcessTask(context.Background(), task))
	assert.Equal(t, []string{"PLabc"}, s.playlistIDs)
}
