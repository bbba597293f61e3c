// Package bootstrap wires config into the long-lived components every
// binary needs.
package bootstrap

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
	"yt-blindpicks/internal/config"
	"yt-blindpicks/internal/db"
	"yt-blindpicks/internal/logging"
	"yt-blindpicks/internal/retry"
	"yt-blindpicks/internal/syncer"
	"yt-blindpicks/internal/youtube"
)

// Logger builds the process logger from cfg.
func Logger(cfg *config.Config) (*logrus.Logger, io.Closer, error) {
	return logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
}

// YouTubeConfig maps process config onto the remote client config.
func YouTubeConfig(cfg *config.Config) youtube.Config {
	rc := retry.DefaultConfig()
	rc.MaxRetries = cfg.YouTubeMaxRetries
	return youtube.Config{
		APIKey:            cfg.YouTubeAPIKey,
		Endpoint:          cfg.YouTubeEndpoint,
		Timeout:           cfg.YouTubeTimeout,
		RequestsPerSecond: cfg.YouTubeRPS,
		MaxPages:          cfg.SyncMaxPages,
		Retry:             rc,
	}
}

// Components are the pieces shared by the server, worker and CLI.
type Components struct {
	Store  *db.Store
	Engine *syncer.Engine
}

// Close releases the database pool.
func (c *Components) Close() error {
	return c.Store.DB().Close()
}

// Open connects to the database and builds the sync engine.
func Open(ctx context.Context, cfg *config.Config, logger logrus.FieldLogger, opts ...option.ClientOption) (*Components, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	conn, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	store := db.NewStore(conn)

	client, err := youtube.NewClient(ctx, YouTubeConfig(cfg), logger, opts...)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("create youtube client: %w", err)
	}

	engine := syncer.New(store, client, logger, syncer.WithIncremental(cfg.SyncIncremental))
	return &Components{Store: store, Engine: engine}, nil
}
