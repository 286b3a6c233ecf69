package sqlite

func (s Storage) RunMigrations() error {
	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return err
		}
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS bookings (
		id VARCHAR NOT NULL PRIMARY KEY,
		chat_id INTEGER NOT NULL,
		account VARCHAR NOT NULL,
		starts_at TIMESTAMP NOT NULL,
		duration_min INTEGER NOT NULL,
		topic VARCHAR NOT NULL,
		join_url VARCHAR NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_chat_id ON bookings (chat_id)`,
	`CREATE INDEX IF NOT EXISTS idx_bookings_join_url ON bookings (join_url)`,
}
