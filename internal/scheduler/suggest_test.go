package scheduler_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/internal/scheduler"
)

func newSuggester(t *testing.T, provider zoombot.MeetingProvider, step, horizon time.Duration, max int, accounts ...zoombot.Account) (*scheduler.Suggester, *scheduler.Checker) {
	t.Helper()
	checker := newChecker(t, provider, accounts...)
	return scheduler.NewSuggester(checker, step, horizon, max), checker
}

// Fully booked everywhere except account 2 at +90 minutes: suggest must
// return exactly that one slot.
func TestSuggester_FindsTheOnlyFreeSlot(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, almaty)
	requested := window(start, 60)

	provider := newFakeProvider()
	// Account 1 busy all day, account 2 busy except 11:30-12:30.
	provider.book("a@example.com", window(start, 14*60))
	provider.book("b@example.com", window(start, 90))
	provider.book("b@example.com", window(start.Add(150*time.Minute), 12*60))

	sug, checker := newSuggester(t, provider, 30*time.Minute, 2*time.Hour, 5, acc("a"), acc("b"))

	slots, err := sug.Suggest(context.Background(), requested, 0)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "b@example.com", slots[0].Account.Email)
	assert.Equal(t, start.Add(90*time.Minute), slots[0].Window.Start)
	assert.Equal(t, requested.Duration, slots[0].Window.Duration)

	// Consistency: the suggested slot re-checks as free for that account.
	avail, err := checker.Check(context.Background(), slots[0].Window, 0)
	require.NoError(t, err)
	for _, a := range avail {
		if a.Account.Email == slots[0].Account.Email {
			assert.True(t, a.Free)
		}
	}
}

func TestSuggester_EmptyWhenHorizonExhausted(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, almaty)
	provider := newFakeProvider()
	provider.book("a@example.com", window(start, 24*60))

	sug, _ := newSuggester(t, provider, 30*time.Minute, 2*time.Hour, 5, acc("a"))

	slots, err := sug.Suggest(context.Background(), window(start, 60), 0)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestSuggester_StopsAtMaxCandidates(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, almaty)
	provider := newFakeProvider()

	sug, _ := newSuggester(t, provider, 30*time.Minute, 6*time.Hour, 2, acc("a"))

	slots, err := sug.Suggest(context.Background(), window(start, 60), 0)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, start.Add(30*time.Minute), slots[0].Window.Start)
	assert.Equal(t, start.Add(60*time.Minute), slots[1].Window.Start)
}

func TestSuggester_TieBreakPrefersLightestDay(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, almaty)
	provider := newFakeProvider()
	// Both accounts are free at +30, but account a carries two meetings
	// that day and account b only one.
	provider.book("a@example.com", window(start.Add(-4*time.Hour), 30))
	provider.book("a@example.com", window(start.Add(-3*time.Hour), 30))
	provider.book("b@example.com", window(start.Add(-4*time.Hour), 30))

	sug, _ := newSuggester(t, provider, 30*time.Minute, time.Hour, 1, acc("a"), acc("b"))

	slots, err := sug.Suggest(context.Background(), window(start, 60), 0)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "b@example.com", slots[0].Account.Email)
}

func TestSuggester_TieBreakFallsBackToPoolOrder(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, almaty)
	provider := newFakeProvider()

	// Rotation starts at account b, but with equal day load the
	// lowest-index account wins deterministically.
	sug, _ := newSuggester(t, provider, 30*time.Minute, time.Hour, 1, acc("a"), acc("b"))

	slots, err := sug.Suggest(context.Background(), window(start, 60), 1)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, "a@example.com", slots[0].Account.Email)
}

func TestSuggester_CandidateCrossingMidnightSeesNextDayConflict(t *testing.T) {
	// A 00:00-00:30 booking on May 2 blocks the requested 23:00-01:00
	// window and every stepped candidate that still reaches into it.
	// The first clean slot starts at 00:30 the next day.
	start := time.Date(2024, 5, 1, 23, 0, 0, 0, almaty)
	provider := newFakeProvider()
	provider.book("a@example.com", window(time.Date(2024, 5, 2, 0, 0, 0, 0, almaty), 30))

	sug, _ := newSuggester(t, provider, 30*time.Minute, 2*time.Hour, 1, acc("a"))

	slots, err := sug.Suggest(context.Background(), window(start, 120), 0)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 30, 0, 0, almaty), slots[0].Window.Start)
}

func TestSuggester_ProviderDownMidSearch(t *testing.T) {
	start := time.Date(2024, 5, 1, 10, 0, 0, 0, almaty)
	provider := newFakeProvider()
	provider.listErr["a@example.com"] = zoombot.ErrNetwork

	sug, _ := newSuggester(t, provider, 30*time.Minute, time.Hour, 1, acc("a"))

	_, err := sug.Suggest(context.Background(), window(start, 60), 0)
	assert.ErrorIs(t, err, scheduler.ErrProviderUnavailable)
}
