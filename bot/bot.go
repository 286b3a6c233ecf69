// Package bot is the Telegram transport: a conversation state machine
// that collects booking input step by step and hands complete requests
// to the scheduler.
package bot

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v3"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/internal/publisher"
	"github.com/aizhan-u00/zoom-bot-public/internal/scheduler"
)

// Storage is the persistence surface the bot needs on top of what the
// scheduler already uses.
type Storage interface {
	scheduler.Storage
	BookingsByChat(ctx context.Context, chatID int64) ([]*zoombot.Booking, error)
	AccountByURL(ctx context.Context, joinURL string) (string, error)
	DeleteBookingByURL(ctx context.Context, joinURL string) error
}

// Suggestions configures the forward search for alternative slots.
type Suggestions struct {
	Step          time.Duration
	Horizon       time.Duration
	MaxCandidates int
}

type Bot struct {
	tb        *tele.Bot
	pool      *scheduler.Pool
	provider  zoombot.MeetingProvider
	storage   Storage
	publisher *publisher.Publisher
	loc       *time.Location
	sugg      Suggestions
	log       zerolog.Logger

	// cursor rotates the account probe order across booking attempts.
	cursor atomic.Int64

	mu       sync.Mutex
	sessions map[int64]*session
}

func New(
	token string,
	pool *scheduler.Pool,
	provider zoombot.MeetingProvider,
	storage Storage,
	pub *publisher.Publisher,
	loc *time.Location,
	sugg Suggestions,
	log zerolog.Logger,
) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	})
	if err != nil {
		return nil, err
	}

	b := &Bot{
		tb:        tb,
		pool:      pool,
		provider:  provider,
		storage:   storage,
		publisher: pub,
		loc:       loc,
		sugg:      sugg,
		log:       log.With().Str("component", "bot").Logger(),
		sessions:  make(map[int64]*session),
	}
	b.routes()
	return b, nil
}

func (b *Bot) routes() {
	b.tb.Handle("/start", b.handleStart)
	b.tb.Handle("/help", b.handleStart)
	b.tb.Handle("/cancel", b.handleCancel)
	b.tb.Handle("/book", b.handleBook)
	b.tb.Handle("/my_meetings", b.handleMyMeetings)
	b.tb.Handle("/delete", b.handleDelete)
	b.tb.Handle("/upload_to_youtube", b.handleUpload)
	b.tb.Handle(tele.OnText, b.handleText)
}

// Start runs the long-poller until ctx is canceled.
func (b *Bot) Start(ctx context.Context) {
	go func() {
		<-ctx.Done()
		b.tb.Stop()
	}()

	b.log.Info().Msg("starting long poller")
	b.tb.Start()
}

// newScheduler builds a single-use scheduler for one booking attempt,
// advancing the rotation cursor.
func (b *Bot) newScheduler() *scheduler.Scheduler {
	cursor := int(b.cursor.Add(1) - 1)
	checker := scheduler.NewChecker(b.pool, b.provider, b.log)
	suggester := scheduler.NewSuggester(checker, b.sugg.Step, b.sugg.Horizon, b.sugg.MaxCandidates)
	return scheduler.New(checker, suggester, b.provider, b.storage, cursor, b.log)
}

func (b *Bot) send(chatID int64, what any, opts ...any) {
	if _, err := b.tb.Send(tele.ChatID(chatID), what, opts...); err != nil {
		b.log.Warn().Err(err).Int64("chat_id", chatID).Msg("could not send message")
	}
}
