package sqlite

import (
	"time"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

type booking struct {
	ID       string    `db:"id"`
	ChatID   int64     `db:"chat_id"`
	Account  string    `db:"account"`
	StartsAt time.Time `db:"starts_at"`
	Duration int       `db:"duration_min"`
	Topic    string    `db:"topic"`
	JoinURL  string    `db:"join_url"`
}

func (b booking) Convert() *zoombot.Booking {
	return &zoombot.Booking{
		ID:      b.ID,
		ChatID:  b.ChatID,
		Account: b.Account,
		Window:  zoombot.NewWindow(b.StartsAt.UTC(), b.Duration),
		Topic:   b.Topic,
		JoinURL: b.JoinURL,
	}
}
