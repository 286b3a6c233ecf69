package zoom_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/meeting/zoom"
)

var account = zoombot.Account{
	Email:        "host@example.com",
	AccountID:    "acc-1",
	ClientID:     "client-id",
	ClientSecret: "client-secret",
}

type server struct {
	*httptest.Server
	tokenCalls int64
	handler    http.HandlerFunc
}

func newServer(t *testing.T, handler http.HandlerFunc) *server {
	t.Helper()

	srv := &server{handler: handler}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/oauth/token" {
			atomic.AddInt64(&srv.tokenCalls, 1)
			assert.Equal(t, "account_credentials", r.FormValue("grant_type"))
			assert.Equal(t, "acc-1", r.FormValue("account_id"))

			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]any{
				"access_token": "test-token",
				"token_type":   "bearer",
				"expires_in":   3600,
			})
			return
		}

		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		srv.handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func (s *server) client() *zoom.Client {
	return zoom.NewClient(s.URL, s.URL, zerolog.Nop())
}

func TestListBookings(t *testing.T) {
	window := zoombot.NewWindow(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC), 60)

	pages := map[string]any{
		"": map[string]any{
			"next_page_token": "p2",
			"meetings": []map[string]any{
				{"id": 111, "topic": "Overlapping", "start_time": "2024-05-01T10:30:00Z", "duration": 60, "join_url": "https://zoom.example/j/111"},
				{"id": 222, "topic": "Before", "start_time": "2024-05-01T08:00:00Z", "duration": 60, "join_url": "https://zoom.example/j/222"},
			},
		},
		"p2": map[string]any{
			"meetings": []map[string]any{
				// starts exactly at window end, half-open so not a conflict
				{"id": 333, "topic": "Back to back", "start_time": "2024-05-01T11:00:00Z", "duration": 30, "join_url": "https://zoom.example/j/333"},
			},
		},
	}

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/host@example.com/meetings", r.URL.Path)
		assert.Equal(t, "upcoming", r.URL.Query().Get("type"))
		json.NewEncoder(w).Encode(pages[r.URL.Query().Get("next_page_token")])
	})

	got, err := srv.client().ListBookings(context.Background(), account, window)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "111", got[0].ID)
	assert.Equal(t, "host@example.com", got[0].Account)
	assert.Equal(t, "Overlapping", got[0].Topic)
	assert.Equal(t, time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC), got[0].Window.Start)
}

func TestListBookingsReusesToken(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"meetings": []any{}})
	})
	c := srv.client()

	window := zoombot.NewWindow(time.Now().Add(time.Hour), 30)
	for i := 0; i < 3; i++ {
		_, err := c.ListBookings(context.Background(), account, window)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, atomic.LoadInt64(&srv.tokenCalls))
}

func TestCreate(t *testing.T) {
	start := time.Date(2024, 5, 1, 15, 0, 0, 0, time.FixedZone("Asia/Almaty", 5*60*60))

	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/users/host@example.com/meetings", r.URL.Path)

		var req map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Weekly sync", req["topic"])
		assert.EqualValues(t, 2, req["type"])
		assert.Equal(t, "2024-05-01T10:00:00Z", req["start_time"])
		assert.EqualValues(t, 60, req["duration"])

		settings := req["settings"].(map[string]any)
		assert.Equal(t, "cloud", settings["auto_recording"])
		assert.Equal(t, true, settings["auto_start_meeting_summary"])
		assert.Equal(t, true, settings["join_before_host"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"join_url": "https://zoom.example/j/987654321"})
	})

	joinURL, err := srv.client().Create(context.Background(), account, zoombot.NewWindow(start, 60), "Weekly sync")
	require.NoError(t, err)
	assert.Equal(t, "https://zoom.example/j/987654321", joinURL)
}

func TestCreateErrors(t *testing.T) {
	testcases := []struct {
		status  int
		wantErr error
	}{
		{http.StatusUnauthorized, zoombot.ErrAuth},
		{http.StatusForbidden, zoombot.ErrAuth},
		{http.StatusTooManyRequests, zoombot.ErrRateLimited},
		{http.StatusConflict, zoombot.ErrConflict},
		{http.StatusNotFound, zoombot.ErrNotFound},
	}
	for _, tc := range testcases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				json.NewEncoder(w).Encode(map[string]any{"code": 1001, "message": "nope"})
			})

			_, err := srv.client().Create(context.Background(), account, zoombot.NewWindow(time.Now(), 60), "t")
			assert.ErrorIs(t, err, tc.wantErr)
			assert.ErrorContains(t, err, "nope")
		})
	}
}

func TestDelete(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodDelete, r.Method)
		require.Equal(t, "/meetings/987654321", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})
	require.NoError(t, srv.client().Delete(context.Background(), account, "987654321"))
}

func TestRecording(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/meetings/987654321/recordings", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"uuid":  "abc==",
			"topic": "Weekly sync",
			"recording_files": []map[string]any{
				{"file_type": "M4A", "download_url": "https://zoom.example/rec/audio"},
				{"file_type": "MP4", "download_url": "https://zoom.example/rec/video"},
			},
		})
	})

	rec, err := srv.client().Recording(context.Background(), account, "987654321")
	require.NoError(t, err)
	assert.Equal(t, "abc==", rec.MeetingUUID)
	assert.Equal(t, "Weekly sync", rec.Topic)
	assert.Equal(t, "https://zoom.example/rec/video", rec.DownloadURL)
}

func TestRecordingNoVideo(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"uuid":            "abc==",
			"recording_files": []map[string]any{{"file_type": "CHAT", "download_url": "x"}},
		})
	})

	_, err := srv.client().Recording(context.Background(), account, "987654321")
	assert.ErrorIs(t, err, zoombot.ErrNotFound)
}

func TestSummary(t *testing.T) {
	srv := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"summary_overview": "We talked.",
			"summary_details": []map[string]any{
				{"label": "Roadmap", "summary": "Q3 plans."},
				{"label": "Actions", "summary": "Follow up."},
			},
		})
	})

	s, err := srv.client().Summary(context.Background(), account, "abc==")
	require.NoError(t, err)
	assert.Equal(t, "We talked.", s.Overview)
	require.Len(t, s.Chapters, 2)
	assert.Equal(t, "Roadmap", s.Chapters[0].Label)
	assert.Equal(t, "Q3 plans.", s.Chapters[0].Text)
}

func TestMeetingIDFromURL(t *testing.T) {
	id, err := zoom.MeetingIDFromURL("https://us06web.zoom.us/j/987654321?pwd=secret")
	require.NoError(t, err)
	assert.Equal(t, "987654321", id)

	_, err = zoom.MeetingIDFromURL("https://example.com/watch?v=123")
	assert.Error(t, err)
}
