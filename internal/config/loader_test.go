package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "127.0.0.1"
  port: 9090
database:
  host: "localhost"
  port: 5432
  user: "u"
  password: "p"
  name: "db"
  sslmode: "disable"
logger:
  level: "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9090", cfg.Server.Address())
	assert.Contains(t, cfg.Database.DSN(), "dbname=db")

	// Webhook endpoints fall back to the hosted defaults.
	assert.Equal(t, DefaultChatURL, cfg.Webhooks.ChatURL)
	assert.Equal(t, DefaultDomainCheckURL, cfg.Webhooks.DomainCheckURL)
	assert.Equal(t, DefaultSalesforceURL, cfg.Webhooks.SalesforceURL)
	assert.Equal(t, DefaultStoreCollectorURL, cfg.Webhooks.StoreCollectorURL)
	assert.Equal(t, 15*time.Second, cfg.Webhooks.SubmitTimeout)
	assert.Equal(t, 30*time.Second, cfg.Webhooks.LookupTimeout)

	assert.Equal(t, 3*time.Second, cfg.Polling.Interval)
	assert.Equal(t, 10*time.Second, cfg.Polling.EvictionDelay)
	assert.Equal(t, 7*24*time.Hour, cfg.Polling.CacheMaxAge)
	assert.Equal(t, 100, cfg.Polling.HistoryPageSize)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
server:
  host: "0.0.0.0"
  port: 8080
webhooks:
  chat_url: "https://internal.example/chat"
  submit_timeout: 5s
polling:
  interval: 1s
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://internal.example/chat", cfg.Webhooks.ChatURL)
	assert.Equal(t, 5*time.Second, cfg.Webhooks.SubmitTimeout)
	assert.Equal(t, time.Second, cfg.Polling.Interval)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
