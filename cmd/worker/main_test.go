package main

import (
	"errors"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"yt-blindpicks/internal/test"
	"yt-blindpicks/pkg/tasks"
)

func TestRetryDelay(t *testing.T) {
	f := retryDelay(test.NewLogger())
	task := asynq.NewTask(tasks.TypeSyncPlaylist, nil)
	err := errors.New("boom")

	assert.Equal(t, time.Minute, f(0, err, task))
	assert.Equal(t, 2*time.Minute, f(1, err, task))
	assert.Equal(t, 32*time.Minute, f(5, err, task))
	assert.Equal(t, time.Hour, f(6, err, task))
	assert.Equal(t, time.Hour, f(25, err, task))
}
