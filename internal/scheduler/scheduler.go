package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

// ErrNoAvailability means every account is genuinely booked for the
// requested window and the suggestion horizon.
var ErrNoAvailability = errors.New("scheduler: no availability")

// State of a booking attempt.
type State int

const (
	StateValidating State = iota
	StateChecking
	StateBooking
	StateSuggesting
	StateCommitted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateChecking:
		return "checking_availability"
	case StateBooking:
		return "booking"
	case StateSuggesting:
		return "suggesting"
	case StateCommitted:
		return "committed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// FailReason classifies terminal failures so the transport can phrase
// them differently: a provider outage must never read as "fully booked".
type FailReason int

const (
	FailNone FailReason = iota
	FailValidation
	FailNoAvailability
	FailProvider
	FailPersistence
)

// ValidationError names the offending field so the bot can re-prompt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Reason
}

// Request is one requester's booking input, already parsed by the
// transport but not yet validated.
type Request struct {
	ChatID   int64
	Topic    string
	Start    time.Time
	Duration time.Duration
}

// Outcome is the tagged result of a booking attempt. State is either
// StateCommitted or StateFailed; Suggestions may accompany a
// FailNoAvailability outcome, and JoinURL is set on FailPersistence
// because the remote meeting exists and must not be discarded.
type Outcome struct {
	State       State
	Reason      FailReason
	Booking     *zoombot.Booking
	Suggestions []Slot
	JoinURL     string
	Err         error
}

func (o Outcome) Committed() bool {
	return o.State == StateCommitted
}

// Storage is the persistence surface the scheduler needs. The write must
// be atomic: a crash between provider confirmation and persistence must
// not silently lose the remote meeting.
type Storage interface {
	SaveBooking(ctx context.Context, b *zoombot.Booking) error
}

// Scheduler drives a single booking attempt through
// validating → checking → {booking|suggesting} → {committed|failed}.
// Instances are single-use; the transport creates one per attempt with
// the next rotation cursor.
type Scheduler struct {
	checker   *Checker
	suggester *Suggester
	provider  zoombot.MeetingProvider
	storage   Storage
	cursor    int
	log       zerolog.Logger

	// Now is the clock used for validation, overridable in tests.
	Now func() time.Time

	state State
	done  bool
}

func New(checker *Checker, suggester *Suggester, provider zoombot.MeetingProvider, storage Storage, cursor int, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		checker:   checker,
		suggester: suggester,
		provider:  provider,
		storage:   storage,
		cursor:    cursor,
		Now:       time.Now,
		log:       log.With().Str("component", "scheduler").Int("cursor", cursor).Logger(),
		state:     StateValidating,
	}
}

// Book runs the attempt to a terminal state.
func (s *Scheduler) Book(ctx context.Context, req Request) Outcome {
	if s.done {
		return s.fail(FailValidation, errors.New("scheduler: attempt already ran"))
	}
	s.done = true

	w, verr := s.validate(req)
	if verr != nil {
		return s.fail(FailValidation, verr)
	}

	s.transition(StateChecking)
	avail, err := s.checker.Check(ctx, w, s.cursor)
	if err != nil {
		return s.fail(FailProvider, err)
	}

	best, ok := pick(avail)
	if !ok {
		return s.suggest(ctx, w)
	}

	s.transition(StateBooking)
	// The availability check is advisory: the provider's create call is
	// the final authority, and a conflict here is an expected late
	// failure, not something to lock around.
	joinURL, err := s.provider.Create(ctx, best.Account, w, req.Topic)
	if err != nil {
		return s.fail(FailProvider, fmt.Errorf("creating meeting on %s: %w", best.Account.Email, err))
	}

	b := &zoombot.Booking{
		ID:      uuid.NewString(),
		ChatID:  req.ChatID,
		Account: best.Account.Email,
		Window:  w,
		Topic:   req.Topic,
		JoinURL: joinURL,
	}
	if err := s.storage.SaveBooking(ctx, b); err != nil {
		// The remote meeting exists with no local record. It is not
		// rolled back: it may still be usable, so surface the URL.
		s.log.Error().Str("join_url", joinURL).Err(err).
			Msg("meeting created remotely but local save failed")
		out := s.fail(FailPersistence, err)
		out.JoinURL = joinURL
		return out
	}

	s.transition(StateCommitted)
	s.log.Info().Str("account", b.Account).Str("join_url", joinURL).Msg("meeting booked")
	return Outcome{State: StateCommitted, Booking: b}
}

func (s *Scheduler) suggest(ctx context.Context, w zoombot.Window) Outcome {
	s.transition(StateSuggesting)
	slots, err := s.suggester.Suggest(ctx, w, s.cursor)
	if err != nil {
		return s.fail(FailProvider, err)
	}
	out := s.fail(FailNoAvailability, ErrNoAvailability)
	out.Suggestions = slots
	return out
}

func (s *Scheduler) validate(req Request) (zoombot.Window, *ValidationError) {
	if strings.TrimSpace(req.Topic) == "" {
		return zoombot.Window{}, &ValidationError{Field: "topic", Reason: "must not be empty"}
	}
	if req.Duration < zoombot.MinDuration || req.Duration > zoombot.MaxDuration {
		return zoombot.Window{}, &ValidationError{
			Field:  "duration",
			Reason: fmt.Sprintf("must be between %d and %d minutes", zoombot.MinDuration/time.Minute, zoombot.MaxDuration/time.Minute),
		}
	}
	if !req.Start.After(s.Now()) {
		return zoombot.Window{}, &ValidationError{Field: "start", Reason: "must be in the future"}
	}
	return zoombot.Window{Start: req.Start, Duration: req.Duration}, nil
}

func (s *Scheduler) fail(reason FailReason, err error) Outcome {
	s.transition(StateFailed)
	return Outcome{State: StateFailed, Reason: reason, Err: err}
}

func (s *Scheduler) transition(to State) {
	s.log.Debug().Stringer("from", s.state).Stringer("to", to).Msg("state transition")
	s.state = to
}
