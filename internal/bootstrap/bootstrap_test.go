package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"yt-blindpicks/internal/config"
	"yt-blindpicks/internal/test"
)

func TestYouTubeConfig(t *testing.T) {
	cfg := &config.Config{
		YouTubeAPIKey:     "key",
		YouTubeEndpoint:   "http://localhost:9999/",
		YouTubeTimeout:    3 * time.Second,
		YouTubeRPS:        1.5,
		YouTubeMaxRetries: 7,
		SyncMaxPages:      4,
	}
	yc := YouTubeConfig(cfg)
	assert.Equal(t, "key", yc.APIKey)
	assert.Equal(t, "http://localhost:9999/", yc.Endpoint)
	assert.Equal(t, 3*time.Second, yc.Timeout)
	assert.Equal(t, 1.5, yc.RequestsPerSecond)
	assert.Equal(t, 4, yc.MaxPages)
	assert.Equal(t, 7, yc.Retry.MaxRetries)
	assert.Positive(t, yc.Retry.InitialBackoff)
}

func TestOpenValidates(t *testing.T) {
	_, err := Open(context.Background(), &config.Config{}, test.NewLogger())
	assert.ErrorContains(t, err, "DATABASE_URL")
}
