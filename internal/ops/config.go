package ops

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"main/internal/link"
	"main/pkg/conn"
)

// FileConfig mirrors the JSON config layout.
type FileConfig struct {
	Server    ServerConfig    `json:"server"`
	Reconnect ReconnectConfig `json:"reconnect"`
	Auth      AuthConfig      `json:"auth"`
	Journal   JournalConfig   `json:"journal"`
}

// ServerConfig describes the guidance service endpoint.
type ServerConfig struct {
	Addr string `json:"addr"`
}

// ReconnectConfig describes the automatic reconnection policy.
type ReconnectConfig struct {
	Enabled     *bool `json:"enabled"`
	MaxAttempts int   `json:"maxAttempts"`
	BaseDelayMS int   `json:"baseDelayMs"`
	MaxDelayMS  int   `json:"maxDelayMs"`
}

// AuthConfig carries the handshake credentials.
type AuthConfig struct {
	Token    string `json:"token"`
	DeviceID string `json:"deviceId"`
}

// JournalConfig enables envelope journaling to PostgreSQL.
type JournalConfig struct {
	Enabled  bool   `json:"enabled"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	Database string `json:"database"`
	SSLMode  string `json:"sslMode"`
}

// Loaded is the resolved configuration ready for use.
type Loaded struct {
	Link           link.Option
	Auth           AuthConfig
	JournalEnabled bool
	Postgres       conn.Option
}

// Load reads a JSON config file and resolves client options.
func Load(path string) (Loaded, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Loaded{}, err
	}
	var cfg FileConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Loaded{}, err
	}
	return Resolve(cfg)
}

// Resolve validates a file config and fills defaults.
func Resolve(cfg FileConfig) (Loaded, error) {
	addr := strings.TrimSpace(cfg.Server.Addr)
	if addr == "" {
		return Loaded{}, fmt.Errorf("server addr is empty")
	}
	if !strings.HasPrefix(addr, "ws://") && !strings.HasPrefix(addr, "wss://") {
		return Loaded{}, fmt.Errorf("server addr must be a ws:// or wss:// URL: %s", addr)
	}

	if cfg.Reconnect.MaxAttempts < 0 {
		return Loaded{}, fmt.Errorf("reconnect maxAttempts must be >= 0")
	}
	if cfg.Reconnect.BaseDelayMS < 0 || cfg.Reconnect.MaxDelayMS < 0 {
		return Loaded{}, fmt.Errorf("reconnect delays must be >= 0")
	}
	if cfg.Reconnect.MaxDelayMS != 0 && cfg.Reconnect.MaxDelayMS < cfg.Reconnect.BaseDelayMS {
		return Loaded{}, fmt.Errorf("reconnect maxDelayMs must be >= baseDelayMs")
	}

	reconnect := true
	if cfg.Reconnect.Enabled != nil {
		reconnect = *cfg.Reconnect.Enabled
	}

	opt := link.Option{
		Addr:                 addr,
		Reconnect:            reconnect,
		MaxReconnectAttempts: cfg.Reconnect.MaxAttempts,
		Backoff: link.Backoff{
			Base: time.Duration(cfg.Reconnect.BaseDelayMS) * time.Millisecond,
			Max:  time.Duration(cfg.Reconnect.MaxDelayMS) * time.Millisecond,
		},
	}

	loaded := Loaded{
		Link:           opt,
		Auth:           cfg.Auth,
		JournalEnabled: cfg.Journal.Enabled,
	}

	if cfg.Journal.Enabled {
		if cfg.Journal.Database == "" {
			return Loaded{}, fmt.Errorf("journal database is empty")
		}
		loaded.Postgres = conn.Option{
			Host:     cfg.Journal.Host,
			Port:     cfg.Journal.Port,
			User:     cfg.Journal.User,
			Password: cfg.Journal.Password,
			Database: cfg.Journal.Database,
			SSLMode:  cfg.Journal.SSLMode,
		}
	}

	return loaded, nil
}
