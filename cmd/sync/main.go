package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"
	"yt-blindpicks/internal/bootstrap"
	"yt-blindpicks/internal/config"
	"yt-blindpicks/internal/syncer"
	"yt-blindpicks/internal/youtube"
)

// CommitSHA is set at build time via ldflags
var CommitSHA = "unknown"

type engine interface {
	SyncPlaylist(ctx context.Context, playlistID string, fetchDurations bool) (*syncer.Result, error)
	SyncAll(ctx context.Context, fetchDurations bool) (synced, total int, err error)
}

// session is what one CLI invocation works against.
type session struct {
	engine  engine
	migrate func(ctx context.Context) error
	close   func()
}

type opener func(ctx context.Context) (*session, error)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("invalid configuration")
	}
	logger, logCloser, err := bootstrap.Logger(cfg)
	if err != nil {
		logrus.WithError(err).Fatal("could not set up logging")
	}
	defer logCloser.Close()

	open := func(ctx context.Context) (*session, error) {
		comps, err := bootstrap.Open(ctx, cfg, logger)
		if err != nil {
			return nil, err
		}
		return &session{
			engine:  comps.Engine,
			migrate: comps.Store.Migrate,
			close:   func() { comps.Close() },
		}, nil
	}

	if err := newApp(open, os.Stdout).Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("sync failed: %v", err)
	}
}

func newApp(open opener, out io.Writer) *cli.Command {
	return &cli.Command{
		Name:      "sync",
		Usage:     "Mirror YouTube playlists into the local store",
		Version:   CommitSHA,
		ArgsUsage: "<playlist url or id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "all",
				Usage: "Sync every playlist already in the store",
			},
			&cli.BoolFlag{
				Name:  "durations",
				Usage: "Fetch video durations",
				Value: true,
			},
			&cli.BoolFlag{
				Name:  "migrate",
				Usage: "Apply the schema before syncing",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			all := cmd.Bool("all")
			ref := cmd.Args().First()
			if all == (ref != "") {
				return errors.New("pass either a playlist url/id or --all")
			}

			var playlistID string
			if !all {
				var err error
				if playlistID, err = youtube.ExtractPlaylistID(ref); err != nil {
					return err
				}
			}

			s, err := open(ctx)
			if err != nil {
				return err
			}
			defer s.close()

			if cmd.Bool("migrate") {
				if err := s.migrate(ctx); err != nil {
					return fmt.Errorf("migrate: %w", err)
				}
			}

			durations := cmd.Bool("durations")
			if all {
				synced, total, err := s.engine.SyncAll(ctx, durations)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "synced %d/%d playlists\n", synced, total)
				return nil
			}

			res, err := s.engine.SyncPlaylist(ctx, playlistID, durations)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s: %d items, %d flagged unavailable", res.PlaylistID, res.Items, res.Flagged)
			if res.Truncated {
				fmt.Fprint(out, " (truncated)")
			}
			fmt.Fprintln(out)
			return nil
		},
	}
}
