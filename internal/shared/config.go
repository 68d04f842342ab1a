package shared

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Database    DatabaseConfig    `toml:"database"`
	Cache       CacheConfig       `toml:"cache"`
	Catalogue   CatalogueConfig   `toml:"catalogue"`
	Player      PlayerConfig      `toml:"player"`
	UI          UIConfig          `toml:"ui"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	OAuth OAuthConfig `toml:"oauth"`
}

// OAuthConfig contains the client used for the YouTube device authorization flow.
type OAuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
}

// Configured reports whether placeholder values have been replaced.
func (o OAuthConfig) Configured() bool {
	return o.ClientID != "" && o.ClientSecret != "" && o.ClientID != "your_oauth_client_id"
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CacheConfig locates the downloaded media.
type CacheConfig struct {
	Dir        string `toml:"dir"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// MaxAge is the age after which `cache prune` removes a song.
func (c CacheConfig) MaxAge() time.Duration {
	return time.Duration(c.MaxAgeDays) * 24 * time.Hour
}

// CatalogueConfig contains the YouTube Music endpoints and client limits.
type CatalogueConfig struct {
	BaseURL           string  `toml:"base_url"`
	MediaURL          string  `toml:"media_url"`
	HeadersPath       string  `toml:"headers_path"`
	TokenPath         string  `toml:"token_path"`
	RequestsPerSecond float64 `toml:"requests_per_second"`
	Burst             int     `toml:"burst"`
	AlbumConcurrency  int     `toml:"album_concurrency"`
}

// PlayerConfig contains playback defaults.
type PlayerConfig struct {
	VolumeStep    int `toml:"volume_step"`
	InitialVolume int `toml:"initial_volume"`
}

// UIConfig contains terminal UI settings.
type UIConfig struct {
	TickMS      int    `toml:"tick_ms"`
	QueueLength int    `toml:"queue_length"`
	LogPath     string `toml:"log_path"`
}

// Tick is the interval between scheduler polls.
func (u UIConfig) Tick() time.Duration {
	if u.TickMS <= 0 {
		return 50 * time.Millisecond
	}
	return time.Duration(u.TickMS) * time.Millisecond
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read config file: %w", ErrMissingConfig, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects values the scheduler and clients cannot run with.
func (c *Config) Validate() error {
	switch {
	case c.UI.QueueLength <= 0:
		return fmt.Errorf("%w: ui.queue_length must be positive", ErrInvalidConfig)
	case c.Catalogue.RequestsPerSecond <= 0:
		return fmt.Errorf("%w: catalogue.requests_per_second must be positive", ErrInvalidConfig)
	case c.Catalogue.AlbumConcurrency <= 0:
		return fmt.Errorf("%w: catalogue.album_concurrency must be positive", ErrInvalidConfig)
	case c.Player.InitialVolume < 0 || c.Player.InitialVolume > 100:
		return fmt.Errorf("%w: player.initial_volume must be within 0..100", ErrInvalidConfig)
	}
	return nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
