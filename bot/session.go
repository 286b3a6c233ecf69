package bot

import (
	"time"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/internal/publisher"
)

type step int

const (
	stepIdle step = iota
	stepBookDate
	stepBookTime
	stepBookTopic
	stepBookDuration
	stepDeleteURL
	stepUploadURL
	stepUploadDescription
)

// session is the per-chat conversation state. Input collected so far
// lives here until the flow completes or the user cancels.
type session struct {
	step step

	date  zoombot.Date
	start time.Time
	topic string

	item *publisher.Item

	// busy marks an in-flight booking or upload so a second attempt
	// from the same chat cannot start mid-way.
	busy bool
}

func (b *Bot) session(chatID int64) *session {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[chatID]
	if !ok {
		s = &session{}
		b.sessions[chatID] = s
	}
	return s
}

func (b *Bot) resetSession(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.sessions[chatID]; ok {
		if s.item != nil {
			s.item.Cleanup()
		}
		*s = session{}
	}
}

// beginFlow resets the chat's conversation to the first step of a flow.
// It reports false when an operation for the chat is still running.
func (b *Bot) beginFlow(chatID int64, st step) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[chatID]
	if !ok {
		s = &session{}
		b.sessions[chatID] = s
	}
	if s.busy {
		return false
	}
	if s.item != nil {
		s.item.Cleanup()
	}
	*s = session{step: st}
	return true
}

// tryAcquire marks the session busy; it reports false when another
// operation for the chat is still running.
func (b *Bot) tryAcquire(chatID int64) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.sessions[chatID]
	if !ok {
		s = &session{}
		b.sessions[chatID] = s
	}
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (b *Bot) release(chatID int64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if s, ok := b.sessions[chatID]; ok {
		s.busy = false
	}
}
