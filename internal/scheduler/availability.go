package scheduler

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

// ErrProviderUnavailable means every account probe failed, so "no
// availability" cannot be claimed. Callers should suggest retrying later.
var ErrProviderUnavailable = errors.New("scheduler: meeting provider unavailable")

// Availability reports whether a single account can host a window.
// An entry with Err set is excluded from consideration: the account is
// neither free nor busy, the probe just failed.
type Availability struct {
	Account   zoombot.Account
	PoolIndex int
	Free      bool
	Conflicts []zoombot.Booking
	// DayLoad counts the account's bookings on the window's local day,
	// used as the load-balancing tie-break.
	DayLoad int
	Err     error
}

// Checker probes every account in the pool for a given window.
type Checker struct {
	pool     *Pool
	provider zoombot.MeetingProvider
	log      zerolog.Logger
}

func NewChecker(pool *Pool, provider zoombot.MeetingProvider, log zerolog.Logger) *Checker {
	return &Checker{
		pool:     pool,
		provider: provider,
		log:      log.With().Str("component", "availability").Logger(),
	}
}

// Check fetches each account's bookings for the day containing w's start
// (stretched to w's end when it runs past midnight) and reports, in
// rotated pool order starting at cursor, which accounts are free for w.
// A failed probe marks only that account; Check fails as a whole only
// when every probe failed.
func (c *Checker) Check(ctx context.Context, w zoombot.Window, cursor int) ([]Availability, error) {
	day := zoombot.NewDateFromTime(w.Start).Window()

	// The fetch spans the whole start day (DayLoad counts it) and is
	// stretched past midnight when the window itself runs over, so
	// conflicts on the next day are still seen.
	span := day
	if end := w.End(); end.After(span.End()) {
		span.Duration = end.Sub(span.Start)
	}

	res := make([]Availability, 0, c.pool.Len())
	failed := 0
	for _, i := range c.pool.From(cursor) {
		acc := c.pool.At(i)

		listed, err := c.provider.ListBookings(ctx, acc, span)
		if err != nil {
			failed++
			c.log.Warn().Str("account", acc.Email).Err(err).Msg("availability probe failed")
			res = append(res, Availability{Account: acc, PoolIndex: i, Err: err})
			continue
		}

		var (
			conflicts []zoombot.Booking
			dayLoad   int
		)
		for _, b := range listed {
			if b.Window.Overlaps(w) {
				conflicts = append(conflicts, b)
			}
			if b.Window.Overlaps(day) {
				dayLoad++
			}
		}
		res = append(res, Availability{
			Account:   acc,
			PoolIndex: i,
			Free:      len(conflicts) == 0,
			Conflicts: conflicts,
			DayLoad:   dayLoad,
		})
	}

	if failed == c.pool.Len() {
		return nil, fmt.Errorf("%w: all %d account probes failed", ErrProviderUnavailable, failed)
	}
	return res, nil
}

// pick applies the account tie-break: fewest bookings that day, then
// lowest configuration index.
func pick(avail []Availability) (Availability, bool) {
	var best Availability
	found := false
	for _, a := range avail {
		if a.Err != nil || !a.Free {
			continue
		}
		if !found || a.DayLoad < best.DayLoad ||
			(a.DayLoad == best.DayLoad && a.PoolIndex < best.PoolIndex) {
			best, found = a, true
		}
	}
	return best, found
}
