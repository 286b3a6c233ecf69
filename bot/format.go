package bot

import (
	"errors"
	"fmt"
	"strings"
	"time"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/internal/scheduler"
)

const welcomeMessage = "👋 Welcome!\n" +
	"Commands:\n" +
	"/book - Book a meeting\n" +
	"/my_meetings - My meetings\n" +
	"/delete - Delete a meeting\n" +
	"/upload_to_youtube - Upload recording to YouTube\n" +
	"/cancel - Cancel operation"

func renderOutcome(out scheduler.Outcome) string {
	if out.Committed() {
		return renderBooking(out.Booking)
	}

	switch out.Reason {
	case scheduler.FailValidation:
		var verr *scheduler.ValidationError
		if errors.As(out.Err, &verr) {
			return "⛔ " + verr.Error() + ". Start over with /book."
		}
		return "⛔ Booking error. Start over with /book."

	case scheduler.FailNoAvailability:
		if len(out.Suggestions) == 0 {
			return "⛔ Booking error.\nDetails: No free slots."
		}
		var sb strings.Builder
		sb.WriteString("⛔ Booking error.\nDetails: No free slots.\n\n📅 Available slots:\n")
		for _, slot := range out.Suggestions {
			fmt.Fprintf(&sb, "%s (account: %s)\n", slot.Window, slot.Account.Email)
		}
		sb.WriteString("Choose a time via /book.")
		return sb.String()

	case scheduler.FailProvider:
		return fmt.Sprintf(
			"⚠ Could not reach the meeting service, your request was not booked. "+
				"Try again later.\nDetails: %v", out.Err)

	case scheduler.FailPersistence:
		return fmt.Sprintf(
			"⚠ The meeting was created but could not be saved locally.\n"+
				"Keep the link:\n🔗 %s", out.JoinURL)

	default:
		return fmt.Sprintf("⛔ Booking error.\nDetails: %v", out.Err)
	}
}

func renderBooking(b *zoombot.Booking) string {
	return fmt.Sprintf(
		"✅ Meeting created:\n"+
			"📅 %s\n"+
			"⏰ %s\n"+
			"📝 %s\n"+
			"⏳ %d minutes\n"+
			"👤 Account: %s\n"+
			"🔗 %s",
		b.Window.Start.Format(zoombot.DateFormat),
		b.Window.Start.Format("15:04"),
		b.Topic,
		b.Window.Minutes(),
		b.Account,
		b.JoinURL,
	)
}

func renderMeetings(bookings []*zoombot.Booking, loc *time.Location) string {
	var sb strings.Builder
	sb.WriteString("📅 *Your meetings:*\n\n")
	for _, b := range bookings {
		start := b.Window.Start.In(loc)
		fmt.Fprintf(&sb,
			"📆 %s\n⏰ %s\n📝 %s\n👤 Account: %s\n⏳ %d minutes\n🔗 %s\n\n",
			start.Format(zoombot.DateFormat),
			start.Format("15:04"),
			b.Topic,
			b.Account,
			b.Window.Minutes(),
			b.JoinURL,
		)
	}
	return sb.String()
}
