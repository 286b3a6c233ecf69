package file_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aizhan-u00/zoom-bot-public/file"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

const validConfig = `
bot_token: "123:abc"
timezone: Asia/Almaty
zoom:
  accounts:
    - email: host@example.com
      account_id: acc-1
      client_id: id-1
      client_secret: secret-1
`

func TestLoadConfig(t *testing.T) {
	cfg, err := file.LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "123:abc", cfg.BotToken)
	assert.Equal(t, "Asia/Almaty", cfg.Location().String())
	require.Len(t, cfg.Zoom.Accounts, 1)
	assert.Equal(t, "host@example.com", cfg.Zoom.Accounts[0].Email)
	assert.Equal(t, "secret-1", cfg.Zoom.Accounts[0].ClientSecret)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := file.LoadConfig(writeConfig(t, validConfig))
	require.NoError(t, err)

	assert.Equal(t, "zoombot.db", cfg.Database)
	assert.Equal(t, "https://api.zoom.us/v2", cfg.Zoom.APIBase)
	assert.Equal(t, "https://zoom.us", cfg.Zoom.AuthBase)
	assert.Equal(t, 30, cfg.Suggestions.StepMinutes)
	assert.Equal(t, 4, cfg.Suggestions.HorizonHours)
	assert.Equal(t, 5, cfg.Suggestions.MaxCandidates)
}

func TestLoadConfigInvalid(t *testing.T) {
	testcases := map[string]string{
		"missing token": `
timezone: UTC
zoom:
  accounts:
    - {email: a@b.c, account_id: x, client_id: y, client_secret: z}
`,
		"no accounts": `
bot_token: "123:abc"
zoom:
  accounts: []
`,
		"incomplete account": `
bot_token: "123:abc"
zoom:
  accounts:
    - {email: a@b.c, account_id: x}
`,
		"bad timezone": `
bot_token: "123:abc"
timezone: Mars/Olympus
zoom:
  accounts:
    - {email: a@b.c, account_id: x, client_id: y, client_secret: z}
`,
	}

	for name, content := range testcases {
		t.Run(name, func(t *testing.T) {
			_, err := file.LoadConfig(writeConfig(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := file.LoadConfig(filepath.Join(t.TempDir(), "nope.yml"))
	assert.Error(t, err)
}
