package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the effective configuration after merging flags, environment,
// .env file, config file, and defaults.
type Config struct {
	APIURL   string
	Timeout  time.Duration
	Logconf  string
	Announce AnnounceDefaults
}

// AnnounceDefaults seed the announce command when its flags are omitted.
type AnnounceDefaults struct {
	Media    string
	VolF     *float64
	SourceID *int
}

// Overrides carry the CLI flag values; zero values mean "not set".
type Overrides struct {
	APIURL         string
	TimeoutSeconds int
	Logconf        string
	EnvFile        string // explicit .env path; empty tries ./.env
	ConfigPath     string // explicit TOML path; empty tries the default
}

const (
	defaultConfigPath     = "~/.config/amplictl/config.toml"
	defaultAPIURL         = "http://amplipi.local/api"
	defaultTimeoutSeconds = 10

	envAPIURL         = "AMPLIPI_API_URL"
	envTimeout        = "AMPLIPI_TIMEOUT"
	envLogconf        = "LOGCONF"
	envAnnounceMedia  = "AMPLIPI_ANNOUNCE_MEDIA"
	envAnnounceVolF   = "AMPLIPI_ANNOUNCE_VOL_F"
	envAnnounceSource = "AMPLIPI_ANNOUNCE_SOURCE"
)

// Load resolves the effective configuration. Precedence, highest first:
// flag overrides, process environment (with the .env file merged in without
// clobbering existing variables), the TOML config file, built-in defaults.
// Missing files are not errors unless their path was given explicitly.
func Load(ov Overrides) (Config, error) {
	if err := loadDotenv(ov.EnvFile); err != nil {
		return Config{}, err
	}

	cfg, err := loadFile(ov.ConfigPath)
	if err != nil {
		return Config{}, err
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if v := strings.TrimSpace(ov.APIURL); v != "" {
		cfg.APIURL = v
	}
	if ov.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(ov.TimeoutSeconds) * time.Second
	}
	if v := strings.TrimSpace(ov.Logconf); v != "" {
		cfg.Logconf = v
	}

	if cfg.APIURL == "" {
		cfg.APIURL = defaultAPIURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeoutSeconds * time.Second
	}
	if cfg.Logconf != "" {
		cfg.Logconf = mustExpand(cfg.Logconf)
	}

	return cfg, nil
}

// loadDotenv merges a .env file into the process environment. Variables
// already present in the environment win, matching python-dotenv behavior.
func loadDotenv(path string) error {
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if explicit {
			return fmt.Errorf("load env file: %w", err)
		}
		// The implicit ./.env is optional.
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load .env: %w", err)
		}
	}
	return nil
}

func loadFile(path string) (Config, error) {
	explicit := strings.TrimSpace(path) != ""
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var cfg Config

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) && !explicit {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var file struct {
		APIURL         string `toml:"api_url"`
		TimeoutSeconds int    `toml:"timeout_seconds"`
		Logconf        string `toml:"logconf"`
		Announce       struct {
			Media    string   `toml:"media"`
			VolF     *float64 `toml:"vol_f"`
			SourceID *int     `toml:"source_id"`
		} `toml:"announce"`
	}
	if err := toml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	cfg.APIURL = strings.TrimSpace(file.APIURL)
	if file.TimeoutSeconds > 0 {
		cfg.Timeout = time.Duration(file.TimeoutSeconds) * time.Second
	}
	cfg.Logconf = strings.TrimSpace(file.Logconf)
	cfg.Announce.Media = strings.TrimSpace(file.Announce.Media)
	cfg.Announce.VolF = file.Announce.VolF
	cfg.Announce.SourceID = file.Announce.SourceID

	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv(envAPIURL)); v != "" {
		cfg.APIURL = v
	}
	if v := strings.TrimSpace(os.Getenv(envTimeout)); v != "" {
		seconds, err := strconv.Atoi(v)
		if err != nil || seconds <= 0 {
			return fmt.Errorf("parse %s %q: want a positive integer of seconds", envTimeout, v)
		}
		cfg.Timeout = time.Duration(seconds) * time.Second
	}
	if v := strings.TrimSpace(os.Getenv(envLogconf)); v != "" {
		cfg.Logconf = v
	}
	if v := strings.TrimSpace(os.Getenv(envAnnounceMedia)); v != "" {
		cfg.Announce.Media = v
	}
	if v := strings.TrimSpace(os.Getenv(envAnnounceVolF)); v != "" {
		volF, err := strconv.ParseFloat(v, 64)
		if err != nil || volF < 0 || volF > 1 {
			return fmt.Errorf("parse %s %q: want a float between 0 and 1", envAnnounceVolF, v)
		}
		cfg.Announce.VolF = &volF
	}
	if v := strings.TrimSpace(os.Getenv(envAnnounceSource)); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil || id < 0 {
			return fmt.Errorf("parse %s %q: want a source id", envAnnounceSource, v)
		}
		cfg.Announce.SourceID = &id
	}
	return nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
