package db

import "context"

// UpsertChannel creates the channel or refreshes its title. A nil title
// leaves a known title untouched.
func (s *Store) UpsertChannel(ctx context.Context, id string, title *string) error {
	query := `
		INSERT INTO channels (id, title)
		VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE SET
			title = COALESCE(EXCLUDED.title, channels.title),
			updated_at = NOW()
	`
	_, err := s.db.ExecContext(ctx, query, id, title)
	return storeErr("upsert channel", err)
}
