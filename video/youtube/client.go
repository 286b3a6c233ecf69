// Package youtube uploads meeting recordings to a YouTube channel using
// the account's OAuth token.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/youtube/v3"
)

const defaultSleep = 5 * time.Second

type Client struct {
	oauthCfg *oauth2.Config
	token    *oauth2.Token
	log      zerolog.Logger
}

// NewClient builds a client from the OAuth application credentials and,
// when tokenJSON is non-nil, a previously obtained user token. A client
// without a token can only Login.
func NewClient(credJSON, tokenJSON []byte, log zerolog.Logger) (*Client, error) {
	oauthCfg, err := google.ConfigFromJSON(credJSON, youtube.YoutubeUploadScope)
	if err != nil {
		return nil, fmt.Errorf("youtube: parsing credentials file: %v", err)
	}

	c := &Client{
		oauthCfg: oauthCfg,
		log:      log.With().Str("component", "youtube").Logger(),
	}
	if tokenJSON != nil {
		if err := json.Unmarshal(tokenJSON, &c.token); err != nil {
			return nil, fmt.Errorf("youtube: parsing token file: %v", err)
		}
	}
	return c, nil
}

func (c *Client) Upload(ctx context.Context, title, description, path string) (string, error) {
	if c.token == nil {
		return "", errors.New("youtube: no token, run login first")
	}

	svc, err := youtube.NewService(ctx, option.WithHTTPClient(c.oauthCfg.Client(ctx, c.token)))
	if err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	video := &youtube.Video{
		Snippet: &youtube.VideoSnippet{
			Title:       title,
			Description: description,
			CategoryId:  "27", // Education
		},
		Status: &youtube.VideoStatus{
			PrivacyStatus:           "unlisted",
			SelfDeclaredMadeForKids: false,
		},
	}

	c.log.Info().Str("title", title).Msg("uploading video")

	var res *youtube.Video
	for {
		res, err = svc.Videos.Insert([]string{"snippet", "status"}, video).
			Context(ctx).
			Media(f).
			Do()
		if err == nil {
			break
		}
		if shouldRetry(err) {
			time.Sleep(defaultSleep)
			if _, err := f.Seek(0, 0); err != nil {
				return "", err
			}
			continue
		}
		return "", fmt.Errorf("youtube: uploading %q: %w", title, err)
	}

	c.log.Info().Str("video_id", res.Id).Msg("upload finished")
	return "https://youtu.be/" + res.Id, nil
}

// Login walks the user through the OAuth consent flow and returns the
// token as JSON, ready to be stored next to the config.
func (c *Client) Login(ctx context.Context) ([]byte, error) {
	state := fmt.Sprintf("zoombot-%d", time.Now().UTC().Nanosecond())
	authURL := c.oauthCfg.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	fmt.Fprintf(os.Stdout, "\nGo to the following link in your browser\n%s\n", authURL)

	mux := http.NewServeMux()
	server := &http.Server{
		Addr:    ":8080",
		Handler: mux,
	}

	var (
		token   *oauth2.Token
		authErr error
	)

	mux.HandleFunc("/zoombot", func(w http.ResponseWriter, req *http.Request) {
		defer func() {
			go server.Shutdown(ctx)
		}()

		query := req.URL.Query()
		if query.Get("state") != state {
			authErr = errors.New("oauth link is not valid")
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		token, authErr = c.oauthCfg.Exchange(ctx, query.Get("code"))
		if authErr != nil {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprintln(w, "Unable to retrieve token:", authErr)
			return
		}

		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "All good, you can close this window!")
	})

	serverCh := make(chan struct{})
	var svrErr error
	go func() {
		svrErr = server.ListenAndServe()
		close(serverCh)
	}()

	<-serverCh

	if svrErr != nil && svrErr != http.ErrServerClosed {
		return nil, svrErr
	}

	if authErr != nil {
		return nil, authErr
	}

	return json.Marshal(token)
}

func shouldRetry(err error) bool {
	var gErr *googleapi.Error
	if !errors.As(err, &gErr) {
		return false
	}

	for _, err := range gErr.Errors {
		switch err.Reason {
		case "rateLimitExceeded", "userRateLimitExceeded":
			return true
		}
	}
	return false
}
