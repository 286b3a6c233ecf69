// Package file loads the bot configuration from a YAML file.
package file

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	zoombot "github.com/aizhan-u00/zoom-bot-public"
)

type Config struct {
	BotToken string `yaml:"bot_token"`
	Timezone string `yaml:"timezone"`
	Database string `yaml:"database"`
	WorkDir  string `yaml:"work_dir"`

	Zoom struct {
		APIBase  string            `yaml:"api_base"`
		AuthBase string            `yaml:"auth_base"`
		Accounts []zoombot.Account `yaml:"accounts"`
	} `yaml:"zoom"`

	YouTube struct {
		Credentials string `yaml:"credentials"`
		Token       string `yaml:"token"`
	} `yaml:"youtube"`

	Suggestions struct {
		StepMinutes   int `yaml:"step_minutes"`
		HorizonHours  int `yaml:"horizon_hours"`
		MaxCandidates int `yaml:"max_candidates"`
	} `yaml:"suggestions"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.defaults()
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) defaults() {
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	if c.Database == "" {
		c.Database = "zoombot.db"
	}
	if c.WorkDir == "" {
		c.WorkDir = os.TempDir()
	}
	if c.Zoom.APIBase == "" {
		c.Zoom.APIBase = "https://api.zoom.us/v2"
	}
	if c.Zoom.AuthBase == "" {
		c.Zoom.AuthBase = "https://zoom.us"
	}
	if c.Suggestions.StepMinutes == 0 {
		c.Suggestions.StepMinutes = 30
	}
	if c.Suggestions.HorizonHours == 0 {
		c.Suggestions.HorizonHours = 4
	}
	if c.Suggestions.MaxCandidates == 0 {
		c.Suggestions.MaxCandidates = 5
	}
}

func (c *Config) validate() error {
	if c.BotToken == "" {
		return fmt.Errorf("bot_token is required")
	}
	if len(c.Zoom.Accounts) == 0 {
		return fmt.Errorf("at least one zoom account is required")
	}
	for i, acc := range c.Zoom.Accounts {
		if acc.Email == "" || acc.AccountID == "" || acc.ClientID == "" || acc.ClientSecret == "" {
			return fmt.Errorf("zoom account #%d is missing a field", i+1)
		}
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("unknown timezone %q", c.Timezone)
	}
	return nil
}

// Location returns the configured timezone. Validate has already run,
// so the lookup cannot fail.
func (c *Config) Location() *time.Location {
	loc, _ := time.LoadLocation(c.Timezone)
	return loc
}
