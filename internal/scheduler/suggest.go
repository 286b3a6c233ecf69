package scheduler

import (
	"context"
	"time"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

// Slot pairs an account with a window that was verified free for it at
// generation time.
type Slot struct {
	Account zoombot.Account
	Window  zoombot.Window
}

// Suggester searches a bounded neighborhood after a requested window for
// alternative slots.
type Suggester struct {
	checker *Checker
	step    time.Duration
	horizon time.Duration
	max     int
}

func NewSuggester(checker *Checker, step, horizon time.Duration, maxCandidates int) *Suggester {
	return &Suggester{
		checker: checker,
		step:    step,
		horizon: horizon,
		max:     maxCandidates,
	}
}

// Suggest steps forward from the requested start, keeping the requested
// duration, and collects the first free account for each candidate window
// until maxCandidates slots are found or the horizon is exhausted. An
// exhausted horizon is an empty result, not an error.
func (s *Suggester) Suggest(ctx context.Context, requested zoombot.Window, cursor int) ([]Slot, error) {
	var out []Slot
	for off := s.step; off <= s.horizon; off += s.step {
		if len(out) >= s.max {
			break
		}
		cand := zoombot.Window{Start: requested.Start.Add(off), Duration: requested.Duration}

		avail, err := s.checker.Check(ctx, cand, cursor)
		if err != nil {
			return nil, err
		}
		if best, ok := pick(avail); ok {
			out = append(out, Slot{Account: best.Account, Window: cand})
		}
	}
	return out, nil
}
