// Package config provides configuration loading and defaults for the
// Zwiftcord daemon.
//
// Configuration is loaded from a TOML file in the user's data directory.
// The package covers the Discord application identity, game log location,
// presence display assets, and daemon behavior, with sensible defaults.
package config

//go:generate go run ../../cmd/genconfig

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"tools.zach/dev/zwiftcord/internal/atomicfile"
	"tools.zach/dev/zwiftcord/internal/paths"
)

// DefaultDiscordAppID is the official Zwiftcord Discord application ID.
const DefaultDiscordAppID = "1186064655839587358"

// ErrMissingAppID is returned by [Load] when the configured Discord
// application ID is empty. This is the one configuration error that is fatal
// at startup: without an application ID no handshake can ever succeed.
var ErrMissingAppID = errors.New("discord.app_id must not be empty")

// ///////////////////////////////////////////////
// Configuration Types
// ///////////////////////////////////////////////

// Config represents the top-level application configuration.
type Config struct {
	// Version is the config schema version, kept for future migrations.
	Version int `toml:"version"`
	// Discord holds Discord connection settings.
	Discord DiscordConfig `toml:"discord"`
	// Game holds game client detection and log settings.
	Game GameConfig `toml:"game"`
	// Display holds presence display settings.
	Display DisplayConfig `toml:"display"`
	// Behavior holds daemon timing settings.
	Behavior BehaviorConfig `toml:"behavior"`
	// Log holds logging settings.
	Log LogConfig `toml:"log"`
}

// DiscordConfig holds Discord connection settings.
type DiscordConfig struct {
	// AppID is the Discord application ID for Rich Presence.
	AppID string `toml:"app_id"`
}

// GameConfig holds game client detection and log settings.
type GameConfig struct {
	// LogPath overrides the game log location. Empty means the default
	// Documents/Zwift/Logs/Log.txt under the home directory.
	LogPath string `toml:"log_path,omitempty"`
	// ProcessName is the executable name checked for game liveness.
	ProcessName string `toml:"process_name"`
}

// DisplayConfig holds presence display settings.
type DisplayConfig struct {
	// Assets holds Discord Rich Presence asset keys.
	Assets AssetsConfig `toml:"assets"`
}

// AssetsConfig holds Discord Rich Presence asset keys and tooltips.
type AssetsConfig struct {
	// LargeImage is the key for the large image asset in Discord.
	LargeImage string `toml:"large_image"`
	// LargeText is the tooltip text for the large image.
	LargeText string `toml:"large_text"`
	// SmallImage is the key for the small image overlay, if any.
	SmallImage string `toml:"small_image,omitempty"`
	// SmallText is the tooltip text for the small image.
	SmallText string `toml:"small_text,omitempty"`
}

// BehaviorConfig holds daemon timing settings.
type BehaviorConfig struct {
	// PollIntervalSeconds is the orchestrator tick interval.
	PollIntervalSeconds int `toml:"poll_interval_seconds"`
	// ReconnectIntervalSeconds is the pause between Discord reconnect attempts.
	ReconnectIntervalSeconds int `toml:"reconnect_interval_seconds"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string `toml:"level"`
	// MaxSizeMB is the maximum log file size in megabytes before rotation.
	MaxSizeMB int `toml:"max_size_mb"`
}

// ///////////////////////////////////////////////
// Default Configuration
// ///////////////////////////////////////////////

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Version: 1,
		Discord: DiscordConfig{
			AppID: DefaultDiscordAppID,
		},
		Game: GameConfig{
			ProcessName: "ZwiftApp",
		},
		Display: DisplayConfig{
			Assets: AssetsConfig{
				LargeImage: "zwift_logo",
				LargeText:  "Zwift",
			},
		},
		Behavior: BehaviorConfig{
			PollIntervalSeconds:      5,
			ReconnectIntervalSeconds: 5,
		},
		Log: LogConfig{
			Level:     "info",
			MaxSizeMB: 10,
		},
	}
}

// ExampleConfig returns a Config suitable for generating config.default.toml.
// For this project all defaults are good examples.
func ExampleConfig() *Config {
	return DefaultConfig()
}

// ///////////////////////////////////////////////
// Loading and Saving
// ///////////////////////////////////////////////

// Load reads and parses the configuration file from dataDir/config.toml.
// If the file doesn't exist, returns DefaultConfig. Unset timing fields fall
// back to their defaults; an empty app_id is a fatal configuration error.
func Load(dataDir string) (*Config, error) {
	path := paths.DataDir{Root: dataDir}.Config()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}
	normalize(cfg)

	if cfg.Discord.AppID == "" {
		return nil, ErrMissingAppID
	}
	return cfg, nil
}

// normalize clamps out-of-range values back to their defaults rather than
// failing the load; timing misconfiguration is recoverable, a missing app ID
// is not.
func normalize(cfg *Config) {
	if cfg.Behavior.PollIntervalSeconds <= 0 {
		cfg.Behavior.PollIntervalSeconds = 5
	}
	if cfg.Behavior.ReconnectIntervalSeconds <= 0 {
		cfg.Behavior.ReconnectIntervalSeconds = 5
	}
	if cfg.Log.MaxSizeMB <= 0 {
		cfg.Log.MaxSizeMB = 10
	}
	if cfg.Game.ProcessName == "" {
		cfg.Game.ProcessName = "ZwiftApp"
	}
}

// Save writes cfg to dataDir/config.toml atomically.
func Save(dataDir string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	path := paths.DataDir{Root: dataDir}.Config()
	if err := atomicfile.Write(path, data, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
