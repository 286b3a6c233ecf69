package zoombot

import (
	"context"
	"fmt"
)

// Account is one configured credential set for the Zoom API. Accounts are
// loaded once from configuration and never mutated afterwards.
type Account struct {
	Email        string `yaml:"email"`
	AccountID    string `yaml:"account_id"`
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
}

func (a Account) String() string {
	return a.Email
}

// Booking is a meeting that exists (or existed) on a Zoom account,
// optionally tied to the Telegram chat that requested it.
type Booking struct {
	ID      string
	ChatID  int64
	Account string
	Window  Window
	Topic   string
	JoinURL string
}

func (b Booking) String() string {
	return fmt.Sprintf("%q on %s (%s)", b.Topic, b.Window, b.Account)
}

// MeetingProvider is the Zoom API surface the bot depends on.
type MeetingProvider interface {
	// ListBookings returns the account's meetings that overlap w.
	ListBookings(ctx context.Context, acc Account, w Window) ([]Booking, error)
	// Create schedules a meeting and returns its join URL.
	Create(ctx context.Context, acc Account, w Window, topic string) (joinURL string, err error)
	// Delete removes the meeting from the account. ErrNotFound when the
	// account doesn't own it.
	Delete(ctx context.Context, acc Account, meetingID string) error
}

// Recording points at the downloadable MP4 of a finished meeting.
type Recording struct {
	MeetingUUID string
	Topic       string
	DownloadURL string
}

// Summary is the AI-generated meeting summary Zoom produces for
// cloud-recorded meetings.
type Summary struct {
	Overview string
	Chapters []SummaryChapter
}

type SummaryChapter struct {
	Label string
	Text  string
}

// VideoHost uploads a recording file and returns the public watch URL.
type VideoHost interface {
	Upload(ctx context.Context, title, description, path string) (url string, err error)
}
