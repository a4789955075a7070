// Package config resolves amplictl's effective configuration.
//
// # Resolution Order
//
// Load merges five layers, highest precedence first:
//
//  1. CLI flag overrides (--api, --timeout, --logconf)
//  2. Process environment variables
//  3. An optional .env file merged into the environment (existing variables
//     are never clobbered, matching python-dotenv semantics)
//  4. An optional TOML config file (~/.config/amplictl/config.toml)
//  5. Built-in defaults
//
// # Environment Variables
//
//   - AMPLIPI_API_URL: base URL of the controller API
//   - AMPLIPI_TIMEOUT: request timeout in whole seconds
//   - LOGCONF: path to a YAML logging config
//   - AMPLIPI_ANNOUNCE_MEDIA, AMPLIPI_ANNOUNCE_VOL_F,
//     AMPLIPI_ANNOUNCE_SOURCE: announce command defaults
//
// # TOML Format
//
// Example config.toml:
//
//	api_url = "http://amplipi.local/api"
//	timeout_seconds = 10
//	logconf = "~/.config/amplictl/logconf.yml"
//
//	[announce]
//	vol_f = 0.5
//	source_id = 3
//
// # Defaults
//
//   - API endpoint: http://amplipi.local/api
//   - Timeout: 10 seconds
//
// Missing files are NOT an error - defaults are used instead - unless a path
// was passed explicitly, in which case a missing file fails loudly. Tilde
// expansion is performed on all paths.
//
// The package is read-only and stateless: configuration is loaded once at
// startup and returned as an immutable Config struct.
package config
