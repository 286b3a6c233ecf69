package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog"

	"github.com/aizhan-u00/zoom-bot-public/bot"
	"github.com/aizhan-u00/zoom-bot-public/file"
	"github.com/aizhan-u00/zoom-bot-public/internal/publisher"
	"github.com/aizhan-u00/zoom-bot-public/internal/scheduler"
	"github.com/aizhan-u00/zoom-bot-public/internal/sqlite"
	"github.com/aizhan-u00/zoom-bot-public/meeting/zoom"
	"github.com/aizhan-u00/zoom-bot-public/video/youtube"
)

var RunCommand = _runCommand{
	Name:        "run",
	Description: "Run the Telegram bot",
}

type _runCommand struct {
	Name        string
	Description string
}

func (s _runCommand) Run(ctx context.Context, configFile string, log zerolog.Logger, args []string) error {
	conf, err := file.LoadConfig(configFile)
	if err != nil {
		return err
	}

	db, err := sql.Open(sqlite.DriverName, conf.Database)
	if err != nil {
		return err
	}
	defer db.Close()
	storage := sqlite.NewStorage(db)

	pool, err := scheduler.NewPool(conf.Zoom.Accounts)
	if err != nil {
		return err
	}
	zoomClient := zoom.NewClient(conf.Zoom.APIBase, conf.Zoom.AuthBase, log)

	host, err := newYouTubeClient(conf, log)
	if err != nil {
		return err
	}

	pub := publisher.New(pool, zoomClient, host, storage, conf.WorkDir, log)

	b, err := bot.New(
		conf.BotToken,
		pool,
		zoomClient,
		storage,
		pub,
		conf.Location(),
		bot.Suggestions{
			Step:          time.Duration(conf.Suggestions.StepMinutes) * time.Minute,
			Horizon:       time.Duration(conf.Suggestions.HorizonHours) * time.Hour,
			MaxCandidates: conf.Suggestions.MaxCandidates,
		},
		log,
	)
	if err != nil {
		return fmt.Errorf("creating bot: %w", err)
	}

	log.Info().Int("accounts", pool.Len()).Str("timezone", conf.Timezone).Msg("starting")
	b.Start(ctx)
	return nil
}

func newYouTubeClient(conf *file.Config, log zerolog.Logger) (*youtube.Client, error) {
	credJSON, err := os.ReadFile(conf.YouTube.Credentials)
	if err != nil {
		return nil, fmt.Errorf("reading youtube credentials: %w", err)
	}

	var tokenJSON []byte
	if conf.YouTube.Token != "" {
		tokenJSON, err = os.ReadFile(conf.YouTube.Token)
		if err != nil {
			return nil, fmt.Errorf("reading youtube token (run %q first?): %w", LoginCommand.Name, err)
		}
	}
	return youtube.NewClient(credJSON, tokenJSON, log)
}
