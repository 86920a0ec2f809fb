package config

// FieldDoc holds the comment block emitted above a config key (or section)
// in the generated config.default.toml.
type FieldDoc struct {
	// Comment is the explanatory text; newlines become separate comment lines.
	Comment string
	// Alternatives are commented-out example lines emitted after the key.
	Alternatives []string
}

// ConfigDocs maps dotted config paths to their documentation. Consumed by
// cmd/genconfig when regenerating config.default.toml.
var ConfigDocs = map[string]FieldDoc{
	"version": {
		Comment: "Config schema version. Do not edit.",
	},

	"discord": {
		Comment: "Discord connection settings.",
	},
	"discord.app_id": {
		Comment: "Discord application ID used for the Rich Presence handshake.\nThe default is the official Zwiftcord application; replace it only if\nyou registered your own application with its own asset keys.",
	},

	"game": {
		Comment: "Game client detection and log settings.",
	},
	"game.process_name": {
		Comment: "Executable name checked to decide whether Zwift is running.",
	},
	"game.log_path": {
		Comment:      "Override the game log location. Leave unset to use the default\nDocuments/Zwift/Logs/Log.txt under your home directory.",
		Alternatives: []string{`log_path = "/path/to/Zwift/Logs/Log.txt"`},
	},

	"display.assets": {
		Comment: "Discord Rich Presence asset keys. Keys must exist in the Discord\napplication's Rich Presence assets.",
	},
	"display.assets.large_image": {
		Comment: "Asset key for the large presence image.",
	},
	"display.assets.large_text": {
		Comment: "Tooltip shown when hovering the large image.",
	},
	"display.assets.small_image": {
		Comment:      "Optional asset key for the small overlay image.",
		Alternatives: []string{`small_image = "zwiftcord_badge"`},
	},
	"display.assets.small_text": {
		Comment:      "Tooltip shown when hovering the small image.",
		Alternatives: []string{`small_text = "via Zwiftcord"`},
	},

	"behavior": {
		Comment: "Daemon timing.",
	},
	"behavior.poll_interval_seconds": {
		Comment: "Seconds between orchestrator ticks (liveness check + log poll).",
	},
	"behavior.reconnect_interval_seconds": {
		Comment: "Seconds between Discord reconnect attempts.",
	},

	"log": {
		Comment: "Daemon logging.",
	},
	"log.level": {
		Comment: "Minimum log level: trace, debug, info, warn, error, fail.",
	},
	"log.max_size_mb": {
		Comment: "Log file size in megabytes before rotation.",
	},
}
