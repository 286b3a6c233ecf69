package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/aizhan-u00/zoom-bot-public/file"
	"github.com/aizhan-u00/zoom-bot-public/video/youtube"
)

var LoginCommand = _loginCommand{
	Name:        "login",
	Description: "Authorize the YouTube channel and store the token",
}

type _loginCommand struct {
	Name        string
	Description string
}

func (s _loginCommand) Run(ctx context.Context, configFile string, log zerolog.Logger, args []string) error {
	conf, err := file.LoadConfig(configFile)
	if err != nil {
		return err
	}
	if conf.YouTube.Token == "" {
		return fmt.Errorf("youtube.token path is not set in %s", configFile)
	}

	credJSON, err := os.ReadFile(conf.YouTube.Credentials)
	if err != nil {
		return fmt.Errorf("reading youtube credentials: %w", err)
	}

	client, err := youtube.NewClient(credJSON, nil, log)
	if err != nil {
		return err
	}

	tokenJSON, err := client.Login(ctx)
	if err != nil {
		return fmt.Errorf("youtube: logging in: %w", err)
	}

	if err := os.WriteFile(conf.YouTube.Token, tokenJSON, 0o600); err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "Token saved to %s\n", conf.YouTube.Token)
	return nil
}
