// Package zoom implements the meeting provider against the Zoom REST API
// using server-to-server OAuth, one credential set per account.
package zoom

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

const (
	DefaultAPIBase  = "https://api.zoom.us/v2"
	DefaultAuthBase = "https://zoom.us"

	requestTimeout = 10 * time.Second
)

type Client struct {
	hc       *http.Client
	apiBase  string
	authBase string
	log      zerolog.Logger

	mu     sync.Mutex
	tokens map[string]oauth2.TokenSource
}

func NewClient(apiBase, authBase string, log zerolog.Logger) *Client {
	if apiBase == "" {
		apiBase = DefaultAPIBase
	}
	if authBase == "" {
		authBase = DefaultAuthBase
	}
	return &Client{
		hc:       &http.Client{Timeout: requestTimeout},
		apiBase:  apiBase,
		authBase: authBase,
		log:      log.With().Str("component", "zoom").Logger(),
		tokens:   make(map[string]oauth2.TokenSource),
	}
}

// tokenSource returns the cached token source for the account. The
// oauth2 package owns caching and refresh; Zoom's server-to-server flow
// is the client-credentials grant with an overridden grant_type.
func (c *Client) tokenSource(acc zoombot.Account) oauth2.TokenSource {
	c.mu.Lock()
	defer c.mu.Unlock()

	if ts, ok := c.tokens[acc.Email]; ok {
		return ts
	}
	cfg := &clientcredentials.Config{
		ClientID:     acc.ClientID,
		ClientSecret: acc.ClientSecret,
		TokenURL:     c.authBase + "/oauth/token",
		EndpointParams: url.Values{
			"grant_type": {"account_credentials"},
			"account_id": {acc.AccountID},
		},
		AuthStyle: oauth2.AuthStyleInHeader,
	}
	ts := cfg.TokenSource(context.Background())
	c.tokens[acc.Email] = ts
	return ts
}

func (c *Client) ListBookings(ctx context.Context, acc zoombot.Account, w zoombot.Window) ([]zoombot.Booking, error) {
	var out []zoombot.Booking

	pageToken := ""
	for {
		path := "/users/" + url.PathEscape(acc.Email) + "/meetings?type=upcoming&page_size=300"
		if pageToken != "" {
			path += "&next_page_token=" + url.QueryEscape(pageToken)
		}

		status, body, err := c.do(ctx, acc, http.MethodGet, path, nil)
		if err != nil {
			return nil, err
		}
		if status != http.StatusOK {
			return nil, apiError(status, body)
		}

		var res struct {
			NextPageToken string    `json:"next_page_token"`
			Meetings      []meeting `json:"meetings"`
		}
		if err := json.Unmarshal(body, &res); err != nil {
			return nil, fmt.Errorf("zoom: decoding meeting list: %w", err)
		}
		for _, m := range res.Meetings {
			b := m.convert(acc.Email)
			if b.Window.Overlaps(w) {
				out = append(out, b)
			}
		}

		pageToken = res.NextPageToken
		if pageToken == "" {
			break
		}
	}
	return out, nil
}

func (c *Client) Create(ctx context.Context, acc zoombot.Account, w zoombot.Window, topic string) (string, error) {
	c.log.Info().Str("account", acc.Email).Stringer("window", w).Msg("creating meeting")

	req := createRequest{
		Topic:     topic,
		Type:      meetingTypeScheduled,
		StartTime: w.Start.UTC().Format(startTimeFormat),
		Duration:  w.Minutes(),
		Timezone:  w.Start.Location().String(),
		Settings: meetingSettings{
			HostVideo:               false,
			ParticipantVideo:        true,
			WaitingRoom:             false,
			AutoRecording:           "cloud",
			MeetingAuthentication:   false,
			JoinBeforeHost:          true,
			JBHTime:                 5,
			AutoStartMeetingSummary: true,
			MuteUponEntry:           true,
		},
	}

	status, body, err := c.do(ctx, acc, http.MethodPost, "/users/"+url.PathEscape(acc.Email)+"/meetings", req)
	if err != nil {
		return "", err
	}
	if status != http.StatusCreated {
		return "", apiError(status, body)
	}

	var res struct {
		JoinURL string `json:"join_url"`
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("zoom: decoding created meeting: %w", err)
	}
	return res.JoinURL, nil
}

func (c *Client) Delete(ctx context.Context, acc zoombot.Account, meetingID string) error {
	status, body, err := c.do(ctx, acc, http.MethodDelete, "/meetings/"+url.PathEscape(meetingID), nil)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent {
		return apiError(status, body)
	}
	c.log.Info().Str("account", acc.Email).Str("meeting_id", meetingID).Msg("meeting deleted")
	return nil
}

func (c *Client) do(ctx context.Context, acc zoombot.Account, method, path string, reqBody any) (int, []byte, error) {
	tok, err := c.tokenSource(acc).Token()
	if err != nil {
		return 0, nil, fmt.Errorf("%w: token for %s: %v", zoombot.ErrAuth, acc.Email, err)
	}

	var rd io.Reader
	if reqBody != nil {
		b, err := json.Marshal(reqBody)
		if err != nil {
			return 0, nil, err
		}
		rd = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apiBase+path, rd)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.hc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: %v", zoombot.ErrNetwork, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response: %v", zoombot.ErrNetwork, err)
	}
	return resp.StatusCode, body, nil
}

func apiError(status int, body []byte) error {
	var e struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &e)
	if e.Message == "" {
		e.Message = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", zoombot.ErrAuth, e.Message)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", zoombot.ErrRateLimited, e.Message)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", zoombot.ErrConflict, e.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", zoombot.ErrNotFound, e.Message)
	}
	return fmt.Errorf("zoom: status %d (code %d): %s", status, e.Code, e.Message)
}
