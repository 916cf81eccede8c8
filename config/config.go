package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Built-in fallbacks used when neither the environment nor the defaults file
// provides a usable value.
const (
	DefaultCenterLat       = -37.8136
	DefaultCenterLng       = 144.9631
	DefaultZoom            = 12
	DefaultSingleVenueZoom = 15
	DefaultSelectedZoom    = 15
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	CSVURL       string
	DefaultsFile string

	CenterLat       float64
	CenterLng       float64
	Zoom            int
	SingleVenueZoom int
	SelectedZoom    int
	ViewportWidth   int
	ViewportHeight  int

	DiscoveryMaxAttempts int
	DiscoveryIntervalMs  int
	FetchTimeoutSec      int
	MaxConcurrency       int
	RateLimitMs          int
	MaxRetries           int

	PostgresTable string
	ChromeBin     string
	LogLevel      string
}

// Defaults mirrors the defaults object a host page hands to every widget
// instance: a fallback data source plus the initial camera.
type Defaults struct {
	CSVURL string `yaml:"csv_url"`
	Center struct {
		Lat float64 `yaml:"lat"`
		Lng float64 `yaml:"lng"`
	} `yaml:"center"`
	Zoom int `yaml:"zoom"`
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		CSVURL:       getEnv("TRIVIA_CSV_URL", ""),
		DefaultsFile: getEnv("TRIVIA_DEFAULTS_FILE", ""),

		CenterLat:       getEnvFloat("TRIVIA_CENTER_LAT", DefaultCenterLat),
		CenterLng:       getEnvFloat("TRIVIA_CENTER_LNG", DefaultCenterLng),
		Zoom:            getEnvInt("TRIVIA_ZOOM", DefaultZoom),
		SingleVenueZoom: getEnvInt("TRIVIA_SINGLE_VENUE_ZOOM", DefaultSingleVenueZoom),
		SelectedZoom:    getEnvInt("TRIVIA_SELECTED_ZOOM", DefaultSelectedZoom),
		ViewportWidth:   getEnvInt("VIEWPORT_WIDTH", 640),
		ViewportHeight:  getEnvInt("VIEWPORT_HEIGHT", 480),

		DiscoveryMaxAttempts: getEnvInt("DISCOVERY_MAX_ATTEMPTS", 50),
		DiscoveryIntervalMs:  getEnvInt("DISCOVERY_INTERVAL_MS", 100),
		FetchTimeoutSec:      getEnvInt("FETCH_TIMEOUT_SEC", 30),
		MaxConcurrency:       getEnvInt("MAX_CONCURRENCY", 1),
		RateLimitMs:          getEnvInt("RATE_LIMIT_MS", 0),
		MaxRetries:           getEnvInt("MAX_RETRIES", 5),

		PostgresTable: getEnv("POSTGRES_TABLE", "venues"),
		ChromeBin:     getEnv("CHROME_BIN", ""),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
	}

	if cfg.DefaultsFile != "" {
		d, err := LoadDefaultsFile(cfg.DefaultsFile)
		if err != nil {
			log.Printf("[config] Ignoring defaults file: %v", err)
		} else {
			cfg.ApplyDefaults(d)
		}
	}

	return cfg
}

// LoadDefaultsFile parses a YAML defaults file.
func LoadDefaultsFile(path string) (*Defaults, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read defaults %q: %w", path, err)
	}
	var d Defaults
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("config: parse defaults %q: %w", path, err)
	}
	return &d, nil
}

// ApplyDefaults fills the data source and camera from d. The environment keeps
// precedence for the data source; zero camera values are ignored.
func (c *Config) ApplyDefaults(d *Defaults) {
	if d == nil {
		return
	}
	if c.CSVURL == "" {
		c.CSVURL = d.CSVURL
	}
	if d.Center.Lat != 0 {
		c.CenterLat = d.Center.Lat
	}
	if d.Center.Lng != 0 {
		c.CenterLng = d.Center.Lng
	}
	if d.Zoom != 0 {
		c.Zoom = d.Zoom
	}
}

// DiscoveryInterval returns the fixed delay between discovery retries.
func (c *Config) DiscoveryInterval() time.Duration {
	return time.Duration(c.DiscoveryIntervalMs) * time.Millisecond
}

// FetchTimeout returns the HTTP client timeout for dataset fetches.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err == nil && f != 0 {
			return f
		}
	}
	return fallback
}
