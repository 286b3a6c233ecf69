// Package publisher moves finished meetings out of Zoom: it downloads
// the cloud recording, renders the AI summary into a document, uploads
// the video, and removes every trace from the Zoom account.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
	"github.com/aizhan-u00/zoom-bot-public/internal/scheduler"
	"github.com/aizhan-u00/zoom-bot-public/meeting/zoom"
)

// Archive is the slice of the Zoom client the publisher needs.
type Archive interface {
	Recording(ctx context.Context, acc zoombot.Account, meetingID string) (*zoombot.Recording, error)
	DownloadRecording(ctx context.Context, acc zoombot.Account, rec *zoombot.Recording, path string) error
	Summary(ctx context.Context, acc zoombot.Account, meetingUUID string) (*zoombot.Summary, error)
	DeleteRecording(ctx context.Context, acc zoombot.Account, meetingID string) error
	Delete(ctx context.Context, acc zoombot.Account, meetingID string) error
}

type Storage interface {
	AccountByURL(ctx context.Context, joinURL string) (string, error)
	DeleteBookingByURL(ctx context.Context, joinURL string) error
}

// Item is a fetched recording staged on disk, ready to be uploaded.
type Item struct {
	Title       string
	Account     string
	VideoPath   string
	SummaryPath string
}

type Publisher struct {
	pool    *scheduler.Pool
	archive Archive
	host    zoombot.VideoHost
	storage Storage
	workDir string
	log     zerolog.Logger
}

func New(pool *scheduler.Pool, archive Archive, host zoombot.VideoHost, storage Storage, workDir string, log zerolog.Logger) *Publisher {
	return &Publisher{
		pool:    pool,
		archive: archive,
		host:    host,
		storage: storage,
		workDir: workDir,
		log:     log.With().Str("component", "publisher").Logger(),
	}
}

// Fetch downloads the recording and summary of the meeting behind
// joinURL, removes them from Zoom along with the meeting itself, and
// returns the staged files.
func (p *Publisher) Fetch(ctx context.Context, joinURL string) (*Item, error) {
	meetingID, err := zoom.MeetingIDFromURL(joinURL)
	if err != nil {
		return nil, err
	}

	acc, rec, err := p.resolve(ctx, joinURL, meetingID)
	if err != nil {
		return nil, err
	}
	p.log.Info().Str("account", acc.Email).Str("topic", rec.Topic).Msg("fetching recording")

	item := &Item{
		Title:     rec.Topic,
		Account:   acc.Email,
		VideoPath: filepath.Join(p.workDir, safeName(rec.Topic)+".mp4"),
	}

	if err := p.archive.DownloadRecording(ctx, acc, rec, item.VideoPath); err != nil {
		return nil, fmt.Errorf("downloading recording: %w", err)
	}

	summary, err := p.archive.Summary(ctx, acc, rec.MeetingUUID)
	if err != nil {
		// Not every meeting produces a summary; the video alone is
		// still worth publishing.
		p.log.Warn().Err(err).Str("topic", rec.Topic).Msg("no summary available")
	} else {
		item.SummaryPath = filepath.Join(p.workDir, safeName(rec.Topic)+"_summary.docx")
		if err := writeSummaryDoc(item.SummaryPath, rec.Topic, summary); err != nil {
			item.Cleanup()
			return nil, fmt.Errorf("writing summary document: %w", err)
		}
	}

	if err := p.archive.DeleteRecording(ctx, acc, meetingID); err != nil {
		p.log.Warn().Err(err).Str("meeting_id", meetingID).Msg("could not delete cloud recording")
	}
	if err := p.archive.Delete(ctx, acc, meetingID); err != nil && !errors.Is(err, zoombot.ErrNotFound) {
		p.log.Warn().Err(err).Str("meeting_id", meetingID).Msg("could not delete meeting")
	}
	if err := p.storage.DeleteBookingByURL(ctx, joinURL); err != nil && !errors.Is(err, zoombot.ErrNotFound) {
		p.log.Warn().Err(err).Str("join_url", joinURL).Msg("could not delete booking row")
	}

	return item, nil
}

// Upload publishes the staged video and returns the watch URL.
func (p *Publisher) Upload(ctx context.Context, item *Item, description string) (string, error) {
	return p.host.Upload(ctx, item.Title, description, item.VideoPath)
}

// resolve finds the account owning the meeting. The local row is the
// fast path; meetings booked outside the bot are found by probing every
// account for the recording.
func (p *Publisher) resolve(ctx context.Context, joinURL, meetingID string) (zoombot.Account, *zoombot.Recording, error) {
	email, err := p.storage.AccountByURL(ctx, joinURL)
	if err == nil {
		for _, acc := range p.pool.Accounts() {
			if acc.Email == email {
				rec, err := p.archive.Recording(ctx, acc, meetingID)
				if err != nil {
					return zoombot.Account{}, nil, err
				}
				return acc, rec, nil
			}
		}
	} else if !errors.Is(err, zoombot.ErrNotFound) {
		return zoombot.Account{}, nil, err
	}

	for _, acc := range p.pool.Accounts() {
		rec, err := p.archive.Recording(ctx, acc, meetingID)
		if err != nil {
			if errors.Is(err, zoombot.ErrNotFound) {
				continue
			}
			return zoombot.Account{}, nil, err
		}
		return acc, rec, nil
	}
	return zoombot.Account{}, nil, fmt.Errorf("%w: recording for meeting %s on any account", zoombot.ErrNotFound, meetingID)
}

// Cleanup removes the staged files. Safe to call more than once.
func (i *Item) Cleanup() {
	os.Remove(i.VideoPath)
	if i.SummaryPath != "" {
		os.Remove(i.SummaryPath)
	}
}

func safeName(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, title)
}
