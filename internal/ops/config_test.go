package ops

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadResolvesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"server": {"addr": "wss://guide.example.com/ws"},
		"reconnect": {"maxAttempts": 3, "baseDelayMs": 500, "maxDelayMs": 4000},
		"auth": {"token": "tok-1", "deviceId": "dev-1"}
	}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "wss://guide.example.com/ws", loaded.Link.Addr)
	assert.True(t, loaded.Link.Reconnect, "reconnect defaults to enabled")
	assert.Equal(t, 3, loaded.Link.MaxReconnectAttempts)
	assert.Equal(t, 500*time.Millisecond, loaded.Link.Backoff.Base)
	assert.Equal(t, 4*time.Second, loaded.Link.Backoff.Max)
	assert.Equal(t, "tok-1", loaded.Auth.Token)
	assert.False(t, loaded.JournalEnabled)
}

func TestResolveRejectsBadAddr(t *testing.T) {
	_, err := Resolve(FileConfig{Server: ServerConfig{Addr: ""}})
	require.Error(t, err)

	_, err = Resolve(FileConfig{Server: ServerConfig{Addr: "http://not-ws"}})
	require.Error(t, err)
}

func TestResolveRejectsInvertedDelays(t *testing.T) {
	cfg := FileConfig{
		Server:    ServerConfig{Addr: "ws://svc"},
		Reconnect: ReconnectConfig{BaseDelayMS: 2000, MaxDelayMS: 1000},
	}
	_, err := Resolve(cfg)
	require.Error(t, err)
}

func TestResolveJournalRequiresDatabase(t *testing.T) {
	cfg := FileConfig{
		Server:  ServerConfig{Addr: "ws://svc"},
		Journal: JournalConfig{Enabled: true},
	}
	_, err := Resolve(cfg)
	require.Error(t, err)

	cfg.Journal.Database = "guidance"
	cfg.Journal.Host = "db.local"
	loaded, err := Resolve(cfg)
	require.NoError(t, err)
	assert.True(t, loaded.JournalEnabled)
	assert.Equal(t, "db.local", loaded.Postgres.Host)
	assert.Equal(t, "guidance", loaded.Postgres.Database)
}

func TestResolveReconnectDisabled(t *testing.T) {
	disabled := false
	cfg := FileConfig{
		Server:    ServerConfig{Addr: "ws://svc"},
		Reconnect: ReconnectConfig{Enabled: &disabled},
	}
	loaded, err := Resolve(cfg)
	require.NoError(t, err)
	assert.False(t, loaded.Link.Reconnect)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.json"))
	require.Error(t, err)
}
