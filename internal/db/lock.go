package db

import (
	"context"
	"database/sql/driver"
	"time"
)

// LockPlaylist takes a session-level Postgres advisory lock keyed by the
// playlist id and holds it on a dedicated connection until the returned
// release func is called. Concurrent syncs of one playlist queue up here.
func (s *Store) LockPlaylist(ctx context.Context, playlistID string) (func(), error) {
	conn, err := s.db.Connx(ctx)
	if err != nil {
		return nil, storeErr("lock playlist", err)
	}

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock(hashtext($1))`, playlistID); err != nil {
		conn.Close()
		return nil, storeErr("lock playlist", err)
	}

	release := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_unlock(hashtext($1))`, playlistID); err != nil {
			// the lock lives as long as the session, so drop the session
			conn.Raw(func(any) error { return driver.ErrBadConn })
		}
		conn.Close()
	}
	return release, nil
}
