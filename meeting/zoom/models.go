package zoom

import (
	"strconv"
	"time"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

const (
	meetingTypeScheduled = 2

	startTimeFormat = "2006-01-02T15:04:05Z"
)

type meeting struct {
	ID        int64  `json:"id"`
	UUID      string `json:"uuid"`
	Topic     string `json:"topic"`
	StartTime string `json:"start_time"`
	Duration  int    `json:"duration"`
	JoinURL   string `json:"join_url"`
}

func (m meeting) convert(email string) zoombot.Booking {
	start, _ := time.Parse(time.RFC3339, m.StartTime)
	return zoombot.Booking{
		ID:      strconv.FormatInt(m.ID, 10),
		Account: email,
		Window:  zoombot.NewWindow(start, m.Duration),
		Topic:   m.Topic,
		JoinURL: m.JoinURL,
	}
}

type createRequest struct {
	Topic     string          `json:"topic"`
	Type      int             `json:"type"`
	StartTime string          `json:"start_time"`
	Duration  int             `json:"duration"`
	Timezone  string          `json:"timezone"`
	Settings  meetingSettings `json:"settings"`
}

type meetingSettings struct {
	HostVideo               bool   `json:"host_video"`
	ParticipantVideo        bool   `json:"participant_video"`
	WaitingRoom             bool   `json:"waiting_room"`
	AutoRecording           string `json:"auto_recording"`
	MeetingAuthentication   bool   `json:"meeting_authentication"`
	JoinBeforeHost          bool   `json:"join_before_host"`
	JBHTime                 int    `json:"jbh_time"`
	AutoStartMeetingSummary bool   `json:"auto_start_meeting_summary"`
	MuteUponEntry           bool   `json:"mute_upon_entry"`
}
