package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

const DriverName = "sqlite3"

type Storage struct {
	db *sqlx.DB
}

func NewStorage(db *sql.DB) *Storage {
	s := &Storage{
		db: sqlx.NewDb(db, DriverName),
	}
	err := s.RunMigrations()
	if err != nil {
		panic(fmt.Sprintf("sqlite: running migrations: %v", err))
	}
	return s
}

// SaveBooking inserts the booking as a single row, so the write is
// all-or-nothing.
func (s Storage) SaveBooking(ctx context.Context, b *zoombot.Booking) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO bookings (id, chat_id, account, starts_at, duration_min, topic, join_url)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, b.ID, b.ChatID, b.Account, b.Window.Start.UTC(), b.Window.Minutes(), b.Topic, b.JoinURL)
	return err
}

func (s Storage) BookingsByChat(ctx context.Context, chatID int64) ([]*zoombot.Booking, error) {
	var rows []booking

	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, chat_id, account, starts_at, duration_min, topic, join_url
		FROM bookings
		WHERE chat_id = ?
		ORDER BY starts_at
	`, chatID)
	if err != nil {
		return nil, err
	}

	res := make([]*zoombot.Booking, len(rows))
	for i, b := range rows {
		res[i] = b.Convert()
	}
	return res, nil
}

func (s Storage) AccountByURL(ctx context.Context, joinURL string) (string, error) {
	var account string
	err := s.db.GetContext(ctx, &account, `
		SELECT account FROM bookings WHERE join_url = ?
	`, joinURL)
	if errors.Is(err, sql.ErrNoRows) {
		return "", zoombot.ErrNotFound
	}
	return account, err
}

func (s Storage) DeleteBookingByURL(ctx context.Context, joinURL string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM bookings WHERE join_url = ?
	`, joinURL)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return zoombot.ErrNotFound
	}
	return nil
}
