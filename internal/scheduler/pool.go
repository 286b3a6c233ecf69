package scheduler

import (
	"errors"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

// ErrEmptyPool is a fatal configuration error, reported at startup.
var ErrEmptyPool = errors.New("scheduler: account pool is empty")

// Pool holds the configured Zoom accounts in configuration order.
// It is immutable after construction.
type Pool struct {
	accounts []zoombot.Account
}

func NewPool(accounts []zoombot.Account) (*Pool, error) {
	if len(accounts) == 0 {
		return nil, ErrEmptyPool
	}
	cp := make([]zoombot.Account, len(accounts))
	copy(cp, accounts)
	return &Pool{accounts: cp}, nil
}

func (p *Pool) Len() int {
	return len(p.accounts)
}

func (p *Pool) Accounts() []zoombot.Account {
	cp := make([]zoombot.Account, len(p.accounts))
	copy(cp, p.accounts)
	return cp
}

// At returns the account at its configuration index.
func (p *Pool) At(i int) zoombot.Account {
	return p.accounts[i]
}

// From returns the pool indexes rotated to start at cursor. Passing the
// cursor in explicitly keeps repeated runs deterministic while still
// spreading the probing load across accounts.
func (p *Pool) From(cursor int) []int {
	n := len(p.accounts)
	cursor = ((cursor % n) + n) % n
	idx := make([]int, 0, n)
	for i := 0; i < n; i++ {
		idx = append(idx, (cursor+i)%n)
	}
	return idx
}
