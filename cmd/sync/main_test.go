package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"yt-blindpicks/internal/syncer"
)

type fakeEngine struct {
	playlistID string
	durations  bool
	all        bool
}

func (f *fakeEngine) SyncPlaylist(ctx context.Context, playlistID string, fetchDurations bool) (*syncer.Result, error) {
	f.playlistID, f.durations = playlistID, fetchDurations
	return &syncer.Result{PlaylistID: playlistID, Items: 5, Flagged: 2}, nil
}

func (f *fakeEngine) SyncAll(ctx context.Context, fetchDurations bool) (int, int, error) {
	f.all, f.durations = true, fetchDurations
	return 3, 4, nil
}

type harness struct {
	engine   *fakeEngine
	migrated bool
	closed   bool
	opened   bool
	out      bytes.Buffer
}

func (h *harness) run(args ...string) error {
	open := func(ctx context.Context) (*session, error) {
		h.opened = true
		return &session{
			engine:  h.engine,
			migrate: func(ctx context.Context) error { h.migrated = true; return nil },
			close:   func() { h.closed = true },
		}, nil
	}
	return newApp(open, &h.out).Run(context.Background(), append([]string{"sync"}, args...))
}

func TestSyncOnePlaylist(t *testing.T) {
	h := &harness{engine: &fakeEngine{}}
	require.NoError(t, h.run("https://www.youtube.com/playlist?list=PLxyz"))

	assert.Equal(t, "PLxyz", h.engine.playlistID)
	assert.True(t, h.engine.durations)
	assert.False(t, h.migrated)
	assert.True(t, h.closed)
	assert.Equal(t, "PLxyz: 5 items, 2 flagged unavailable\n", h.out.String())
}

func TestSyncAllWithFlags(t *testing.T) {
	h := &harness{engine: &fakeEngine{}}
	require.NoError(t, h.run("--all", "--durations=false", "--migrate"))

	assert.True(t, h.engine.all)
	assert.False(t, h.engine.durations)
	assert.True(t, h.migrated)
	assert.Equal(t, "synced 3/4 playlists\n", h.out.String())
}

func TestSyncRejectsBadArguments(t *testing.T) {
	for name, args := range map[string][]string{
		"nothing":      {},
		"both":         {"--all", "PLabc"},
		"bad playlist": {"https://youtube.com/watch?v=abc"},
	} {
		t.Run(name, func(t *testing.T) {
			h := &harness{engine: &fakeEngine{}}
			err := h.run(args...)
			require.Error(t, err)
			assert.False(t, h.opened)
		})
	}
}

func TestSyncOpenFailure(t *testing.T) {
	open := func(ctx context.Context) (*session, error) { return nil, errors.New("no database") }
	err := newApp(open, &bytes.Buffer{}).Run(context.Background(), []string{"sync", "PLabc"})
	assert.ErrorContains(t, err, "no database")
}
