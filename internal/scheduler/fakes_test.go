package scheduler_test

import (
	"context"
	"sync"
	"time"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

var almaty = time.FixedZone("Asia/Almaty", 5*60*60)

func acc(n string) zoombot.Account {
	return zoombot.Account{Email: n + "@example.com"}
}

func window(t time.Time, minutes int) zoombot.Window {
	return zoombot.NewWindow(t, minutes)
}

type createCall struct {
	Account zoombot.Account
	Window  zoombot.Window
	Topic   string
}

// fakeProvider serves canned per-account bookings and errors.
type fakeProvider struct {
	mu sync.Mutex

	bookings map[string][]zoombot.Booking
	listErr  map[string]error

	createURL string
	createErr error

	lists   int
	creates []createCall
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		bookings:  make(map[string][]zoombot.Booking),
		listErr:   make(map[string]error),
		createURL: "https://zoom.example/j/123456789",
	}
}

func (f *fakeProvider) book(email string, w zoombot.Window) {
	f.bookings[email] = append(f.bookings[email], zoombot.Booking{
		Account: email,
		Window:  w,
		Topic:   "existing",
	})
}

func (f *fakeProvider) ListBookings(_ context.Context, acc zoombot.Account, w zoombot.Window) ([]zoombot.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lists++
	if err := f.listErr[acc.Email]; err != nil {
		return nil, err
	}
	var out []zoombot.Booking
	for _, b := range f.bookings[acc.Email] {
		if b.Window.Overlaps(w) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeProvider) Create(_ context.Context, acc zoombot.Account, w zoombot.Window, topic string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creates = append(f.creates, createCall{Account: acc, Window: w, Topic: topic})
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createURL, nil
}

func (f *fakeProvider) Delete(context.Context, zoombot.Account, string) error {
	return nil
}

type fakeStorage struct {
	saved []*zoombot.Booking
	err   error
}

func (f *fakeStorage) SaveBooking(_ context.Context, b *zoombot.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, b)
	return nil
}
