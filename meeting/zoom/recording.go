package zoom

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

var joinURLPattern = regexp.MustCompile(`/j/(\d+)`)

// MeetingIDFromURL extracts the numeric meeting ID from a Zoom join link.
func MeetingIDFromURL(joinURL string) (string, error) {
	m := joinURLPattern.FindStringSubmatch(joinURL)
	if m == nil {
		return "", fmt.Errorf("zoom: no meeting id in %q", joinURL)
	}
	return m[1], nil
}

// Recording returns the cloud recording of a finished meeting, picking
// the first MP4 file. Zoom keeps recordings under the meeting ID until
// a new instance of the meeting starts.
func (c *Client) Recording(ctx context.Context, acc zoombot.Account, meetingID string) (*zoombot.Recording, error) {
	status, body, err := c.do(ctx, acc, http.MethodGet, "/meetings/"+url.PathEscape(meetingID)+"/recordings", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var res struct {
		UUID           string `json:"uuid"`
		Topic          string `json:"topic"`
		RecordingFiles []struct {
			FileType    string `json:"file_type"`
			DownloadURL string `json:"download_url"`
		} `json:"recording_files"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("zoom: decoding recordings: %w", err)
	}

	for _, f := range res.RecordingFiles {
		if f.FileType == "MP4" {
			return &zoombot.Recording{
				MeetingUUID: res.UUID,
				Topic:       res.Topic,
				DownloadURL: f.DownloadURL,
			}, nil
		}
	}
	return nil, fmt.Errorf("%w: no MP4 recording for meeting %s", zoombot.ErrNotFound, meetingID)
}

// DownloadRecording streams the recording file to path, authenticating
// with the account's bearer token.
func (c *Client) DownloadRecording(ctx context.Context, acc zoombot.Account, rec *zoombot.Recording, path string) error {
	tok, err := c.tokenSource(acc).Token()
	if err != nil {
		return fmt.Errorf("%w: token for %s: %v", zoombot.ErrAuth, acc.Email, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rec.DownloadURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)

	// Recordings are large; the API client's request timeout would cut
	// the stream short, so only ctx bounds the download.
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", zoombot.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return apiError(resp.StatusCode, body)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("%w: downloading recording: %v", zoombot.ErrNetwork, err)
	}
	return f.Close()
}

func (c *Client) DeleteRecording(ctx context.Context, acc zoombot.Account, meetingID string) error {
	status, body, err := c.do(ctx, acc, http.MethodDelete, "/meetings/"+url.PathEscape(meetingID)+"/recordings?action=trash", nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return apiError(status, body)
	}
	return nil
}

// Summary fetches the AI-generated meeting summary. The endpoint is
// addressed by the double-encoded meeting UUID.
func (c *Client) Summary(ctx context.Context, acc zoombot.Account, meetingUUID string) (*zoombot.Summary, error) {
	encoded := url.PathEscape(url.PathEscape(meetingUUID))
	status, body, err := c.do(ctx, acc, http.MethodGet, "/meetings/"+encoded+"/meeting_summary", nil)
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, apiError(status, body)
	}

	var res struct {
		SummaryOverview string `json:"summary_overview"`
		SummaryDetails  []struct {
			Label   string `json:"label"`
			Summary string `json:"summary"`
		} `json:"summary_details"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("zoom: decoding summary: %w", err)
	}

	s := &zoombot.Summary{Overview: res.SummaryOverview}
	for _, d := range res.SummaryDetails {
		s.Chapters = append(s.Chapters, zoombot.SummaryChapter{Label: d.Label, Text: d.Summary})
	}
	return s, nil
}
