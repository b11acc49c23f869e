package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/clearnight/skywatch/internal/celestrak"
)

// Config represents the complete application configuration
type Config struct {
	Weather   WeatherConfig   `mapstructure:"weather"`
	Geocode   GeocodeConfig   `mapstructure:"geocode"`
	Elements  ElementsConfig  `mapstructure:"elements"`
	Ephemeris EphemerisConfig `mapstructure:"ephemeris"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// WeatherConfig holds Visual Crossing API configuration
type WeatherConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// GeocodeConfig holds Nominatim API configuration
type GeocodeConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ElementsConfig holds the CelesTrak catalog configuration
type ElementsConfig struct {
	CatalogURL  string        `mapstructure:"catalog_url"`
	CachePath   string        `mapstructure:"cache_path"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MinInterval time.Duration `mapstructure:"min_interval"`
}

// EphemerisConfig holds pass prediction configuration
type EphemerisConfig struct {
	MinElevationDeg float64       `mapstructure:"min_elevation_deg"`
	Step            time.Duration `mapstructure:"step"`
	WindowDays      int           `mapstructure:"window_days"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set config file
	v.SetConfigFile(path)

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("SKYWATCH")
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Weather defaults
	v.SetDefault("weather.api_base_url", "https://weather.visualcrossing.com/VisualCrossingWebServices/rest/services/timeline")
	v.SetDefault("weather.timeout", "30s")

	// Geocode defaults
	v.SetDefault("geocode.api_base_url", "https://nominatim.openstreetmap.org")
	v.SetDefault("geocode.timeout", "10s")

	// Elements defaults
	v.SetDefault("elements.catalog_url", celestrak.DefaultCatalogURL)
	v.SetDefault("elements.cache_path", "./data/elements.tle")
	v.SetDefault("elements.timeout", "60s")
	v.SetDefault("elements.min_interval", "1h")

	// Ephemeris defaults
	v.SetDefault("ephemeris.min_elevation_deg", 30.0)
	v.SetDefault("ephemeris.step", "1m")
	v.SetDefault("ephemeris.window_days", 9)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Weather config
	if c.Weather.APIBaseURL == "" {
		return fmt.Errorf("weather.api_base_url is required")
	}
	if c.Weather.APIKey == "" {
		return fmt.Errorf("weather.api_key is required")
	}
	if c.Weather.Timeout < time.Second {
		return fmt.Errorf("weather.timeout must be at least 1 second")
	}

	// Validate Geocode config
	if c.Geocode.APIBaseURL == "" {
		return fmt.Errorf("geocode.api_base_url is required")
	}
	if c.Geocode.Timeout < time.Second {
		return fmt.Errorf("geocode.timeout must be at least 1 second")
	}

	// Validate Elements config
	if c.Elements.CatalogURL == "" {
		return fmt.Errorf("elements.catalog_url is required")
	}
	if c.Elements.CachePath == "" {
		return fmt.Errorf("elements.cache_path is required")
	}
	if c.Elements.MinInterval < time.Minute {
		return fmt.Errorf("elements.min_interval must be at least 1 minute")
	}

	// Validate Ephemeris config
	if c.Ephemeris.MinElevationDeg <= 0 || c.Ephemeris.MinElevationDeg >= 90 {
		return fmt.Errorf("ephemeris.min_elevation_deg must be between 0 and 90")
	}
	if c.Ephemeris.Step < time.Second {
		return fmt.Errorf("ephemeris.step must be at least 1 second")
	}
	if c.Ephemeris.WindowDays < 1 || c.Ephemeris.WindowDays > 9 {
		return fmt.Errorf("ephemeris.window_days must be between 1 and 9 to stay inside the forecast horizon")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
