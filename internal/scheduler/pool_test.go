package scheduler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/internal/scheduler"
)

func TestNewPool_Empty(t *testing.T) {
	_, err := scheduler.NewPool(nil)
	assert.ErrorIs(t, err, scheduler.ErrEmptyPool)
}

func TestPool_From(t *testing.T) {
	pool, err := scheduler.NewPool([]zoombot.Account{acc("a"), acc("b"), acc("c")})
	require.NoError(t, err)

	tests := []struct {
		cursor int
		want   []int
	}{
		{cursor: 0, want: []int{0, 1, 2}},
		{cursor: 1, want: []int{1, 2, 0}},
		{cursor: 2, want: []int{2, 0, 1}},
		{cursor: 3, want: []int{0, 1, 2}},
		{cursor: -1, want: []int{2, 0, 1}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pool.From(tt.cursor), "cursor %d", tt.cursor)
	}
}

func TestPool_AccountsIsACopy(t *testing.T) {
	pool, err := scheduler.NewPool([]zoombot.Account{acc("a"), acc("b")})
	require.NoError(t, err)

	got := pool.Accounts()
	got[0].Email = "mutated@example.com"
	assert.Equal(t, "a@example.com", pool.At(0).Email)
}
