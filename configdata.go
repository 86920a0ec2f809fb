// Package zwiftcord provides embedded assets for the Zwiftcord daemon.
//
// The root package exists solely to embed [config.default.toml] via
// [DefaultConfigTOML]. The daemon copies this file into the data
// directory on first run to seed user-editable defaults.
package zwiftcord

import _ "embed"

// DefaultConfigTOML holds the raw bytes of config.default.toml, embedded at
// build time. Regenerate the file with `go generate ./internal/config` after
// changing config defaults or docs.
//
//go:embed config.default.toml
var DefaultConfigTOML []byte
