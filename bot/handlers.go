package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/internal/scheduler"
	"github.com/aizhan-u00/zoom-bot-public/meeting/zoom"
)

const (
	bookingTimeout = 2 * time.Minute
	uploadTimeout  = 30 * time.Minute
)

func (b *Bot) handleStart(c tele.Context) error {
	b.resetSession(c.Chat().ID)
	return c.Send(welcomeMessage)
}

func (b *Bot) handleCancel(c tele.Context) error {
	b.resetSession(c.Chat().ID)
	return c.Send("⛔ Operation canceled.")
}

func (b *Bot) handleBook(c tele.Context) error {
	if !b.beginFlow(c.Chat().ID, stepBookDate) {
		return c.Send("⏳ Previous operation is still running, wait a moment.")
	}
	return c.Send("📅 Enter the date (DD.MM.YYYY):")
}

func (b *Bot) handleDelete(c tele.Context) error {
	if !b.beginFlow(c.Chat().ID, stepDeleteURL) {
		return c.Send("⏳ Previous operation is still running, wait a moment.")
	}
	return c.Send("🔗 Enter the meeting URL to delete:")
}

func (b *Bot) handleUpload(c tele.Context) error {
	if !b.beginFlow(c.Chat().ID, stepUploadURL) {
		return c.Send("⏳ Previous operation is still running, wait a moment.")
	}
	return c.Send("🔗 Enter the meeting URL to upload:")
}

func (b *Bot) handleMyMeetings(c tele.Context) error {
	chatID := c.Chat().ID
	b.resetSession(chatID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	bookings, err := b.storage.BookingsByChat(ctx, chatID)
	if err != nil {
		b.log.Error().Err(err).Int64("chat_id", chatID).Msg("listing bookings")
		return c.Send("⛔ Could not load your meetings, try again later.")
	}
	if len(bookings) == 0 {
		return c.Send("❌ You have no meetings.")
	}
	return c.Send(renderMeetings(bookings, b.loc), tele.ModeMarkdown)
}

// handleText advances the conversation of the chat one step.
func (b *Bot) handleText(c tele.Context) error {
	chatID := c.Chat().ID
	text := strings.TrimSpace(c.Text())
	s := b.session(chatID)

	// Background goroutines advance sessions too, so every read and
	// write of session fields goes through b.mu.
	b.mu.Lock()
	current := s.step
	b.mu.Unlock()

	switch current {
	case stepBookDate:
		return b.stepDate(c, s, text)
	case stepBookTime:
		return b.stepTime(c, s, text)
	case stepBookTopic:
		b.mu.Lock()
		s.topic = text
		s.step = stepBookDuration
		b.mu.Unlock()
		return c.Send("⏳ Enter the duration (30–240 minutes):")
	case stepBookDuration:
		return b.stepDuration(c, s, text)
	case stepDeleteURL:
		return b.stepDelete(c, s, text)
	case stepUploadURL:
		return b.stepUploadURL(c, s, text)
	case stepUploadDescription:
		return b.stepUploadDescription(c, s, text)
	}
	return nil
}

func (b *Bot) stepDate(c tele.Context, s *session, text string) error {
	date, err := zoombot.ParseDate(text, b.loc)
	if err != nil {
		return c.Send("❌ Invalid date format. Enter again (DD.MM.YYYY):")
	}
	if date.Before(zoombot.Today(b.loc).Time) {
		return c.Send("⛔ Date cannot be in the past. Enter again (DD.MM.YYYY):")
	}
	b.mu.Lock()
	s.date = date
	s.step = stepBookTime
	b.mu.Unlock()
	return c.Send("⏰ Enter the time (HH:MM):")
}

func (b *Bot) stepTime(c tele.Context, s *session, text string) error {
	hhmm, err := time.Parse("15:04", text)
	if err != nil {
		return c.Send("❌ Invalid time format. Enter again (HH:MM):")
	}

	b.mu.Lock()
	date := s.date
	b.mu.Unlock()

	start := date.At(hhmm.Hour(), hhmm.Minute())
	now := time.Now().In(b.loc)
	if !start.After(now) {
		return c.Send(fmt.Sprintf("⛔ Time must not be earlier than %s. Enter again (HH:MM):", now.Format("15:04")))
	}
	b.mu.Lock()
	s.start = start
	s.step = stepBookTopic
	b.mu.Unlock()
	return c.Send("📝 Enter the topic:")
}

func (b *Bot) stepDuration(c tele.Context, s *session, text string) error {
	minutes, err := strconv.Atoi(text)
	if err != nil {
		return c.Send("❌ Invalid duration format. Enter again:")
	}
	duration := time.Duration(minutes) * time.Minute
	if duration < zoombot.MinDuration || duration > zoombot.MaxDuration {
		return c.Send("⛔ Duration must be between 30 and 240 minutes. Enter again:")
	}

	chatID := c.Chat().ID
	if !b.tryAcquire(chatID) {
		return c.Send("⏳ Previous operation is still running, wait a moment.")
	}

	b.mu.Lock()
	topic, start := s.topic, s.start
	s.step = stepIdle
	b.mu.Unlock()

	go b.book(chatID, topic, start, duration)
	return c.Send("🚨 Checking slots...")
}

func (b *Bot) book(chatID int64, topic string, start time.Time, duration time.Duration) {
	defer b.release(chatID)

	ctx, cancel := context.WithTimeout(context.Background(), bookingTimeout)
	defer cancel()

	sched := b.newScheduler()
	out := sched.Book(ctx, scheduler.Request{
		ChatID:   chatID,
		Topic:    topic,
		Start:    start,
		Duration: duration,
	})
	b.send(chatID, renderOutcome(out))
}

func (b *Bot) stepDelete(c tele.Context, s *session, text string) error {
	b.mu.Lock()
	s.step = stepIdle
	b.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	account, err := b.deleteMeeting(ctx, text)
	if err != nil {
		b.log.Warn().Err(err).Str("join_url", text).Msg("deleting meeting")
		return c.Send(fmt.Sprintf("⛔ Deletion error.\nDetails: %v", err))
	}
	return c.Send(fmt.Sprintf("✅ Meeting %s deleted (account: %s).", text, account))
}

// deleteMeeting removes the meeting behind joinURL from Zoom and from
// local storage, returning the owning account.
func (b *Bot) deleteMeeting(ctx context.Context, joinURL string) (string, error) {
	meetingID, err := zoom.MeetingIDFromURL(joinURL)
	if err != nil {
		return "", err
	}

	owner, err := b.resolveOwner(ctx, joinURL, meetingID)
	if err != nil {
		return "", err
	}
	if err := b.provider.Delete(ctx, owner, meetingID); err != nil {
		return "", err
	}
	if err := b.storage.DeleteBookingByURL(ctx, joinURL); err != nil && !errors.Is(err, zoombot.ErrNotFound) {
		b.log.Warn().Err(err).Str("join_url", joinURL).Msg("could not delete booking row")
	}
	return owner.Email, nil
}

func (b *Bot) resolveOwner(ctx context.Context, joinURL, meetingID string) (zoombot.Account, error) {
	email, err := b.storage.AccountByURL(ctx, joinURL)
	if err == nil {
		for _, acc := range b.pool.Accounts() {
			if acc.Email == email {
				return acc, nil
			}
		}
	} else if !errors.Is(err, zoombot.ErrNotFound) {
		return zoombot.Account{}, err
	}

	// Unknown locally, find the account that can see the meeting.
	w := zoombot.NewWindow(time.Now().In(b.loc).Add(-24*time.Hour), 48*60)
	for _, acc := range b.pool.Accounts() {
		bookings, err := b.provider.ListBookings(ctx, acc, w)
		if err != nil {
			continue
		}
		for _, bk := range bookings {
			if bk.ID == meetingID {
				return acc, nil
			}
		}
	}
	return zoombot.Account{}, fmt.Errorf("%w: meeting %s on any account", zoombot.ErrNotFound, meetingID)
}

func (b *Bot) stepUploadURL(c tele.Context, s *session, text string) error {
	chatID := c.Chat().ID
	if !b.tryAcquire(chatID) {
		return c.Send("⏳ Previous operation is still running, wait a moment.")
	}

	go func() {
		defer b.release(chatID)

		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		item, err := b.publisher.Fetch(ctx, text)
		if err != nil {
			b.log.Warn().Err(err).Str("join_url", text).Msg("fetching recording")
			b.resetSession(chatID)
			b.send(chatID, fmt.Sprintf("⚠ Download error.\nDetails: %v", err))
			return
		}

		b.mu.Lock()
		s.item = item
		s.step = stepUploadDescription
		b.mu.Unlock()

		b.send(chatID, "📝 Enter description or a dot (.) for empty one:")
	}()

	return c.Send("⏳ Checking recording...")
}

func (b *Bot) stepUploadDescription(c tele.Context, s *session, text string) error {
	chatID := c.Chat().ID
	if !b.tryAcquire(chatID) {
		return c.Send("⏳ Previous operation is still running, wait a moment.")
	}

	description := text
	if description == "." {
		description = ""
	}

	b.mu.Lock()
	item := s.item
	s.step = stepIdle
	b.mu.Unlock()

	go func() {
		defer b.release(chatID)
		defer func() {
			b.mu.Lock()
			s.item = nil
			b.mu.Unlock()
			item.Cleanup()
		}()

		ctx, cancel := context.WithTimeout(context.Background(), uploadTimeout)
		defer cancel()

		link, err := b.publisher.Upload(ctx, item, description)
		if err != nil {
			b.log.Error().Err(err).Str("title", item.Title).Msg("uploading video")
			b.send(chatID, fmt.Sprintf("⛔ Upload error.\nDetails: %v", err))
			return
		}
		b.send(chatID, "✅ Video uploaded: "+link)

		if item.SummaryPath != "" {
			b.send(chatID, &tele.Document{
				File:     tele.FromDisk(item.SummaryPath),
				FileName: item.Title + "_summary.docx",
			})
		} else {
			b.send(chatID, "⚠ Summary not found.")
		}
	}()

	return c.Send("⏳ Uploading to YouTube...")
}
