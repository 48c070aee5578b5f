package config

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avelasq/wifisentry/internal/core/domain"
)

// Config holds all application configuration.
type Config struct {
	Addr         string
	DBPath       string
	SettingsPath string
	MockMode     bool
	Debug        bool
	Interval     time.Duration
	APIKeyHash   string

	Settings Settings
}

// Settings is the optional YAML settings file. It seeds the persistent
// lists on first run and narrows which threat types are reported.
type Settings struct {
	Whitelist    []string `yaml:"whitelist"`
	Blacklist    []string `yaml:"blacklist"`
	ThreatTypes  []string `yaml:"threat_types"`
	ScanInterval int      `yaml:"scan_interval_seconds"`
}

// EnabledThreatTypes converts the settings list into domain threat types.
// An empty list enables every rule.
func (s Settings) EnabledThreatTypes() []domain.ThreatType {
	types := make([]domain.ThreatType, 0, len(s.ThreatTypes))
	for _, t := range s.ThreatTypes {
		types = append(types, domain.ThreatType(t))
	}
	return types
}

// Load parses command line flags and environment variables to populate
// Config. Flags take precedence over environment variables, and the YAML
// settings file fills in whatever neither provided.
func Load() (*Config, error) {
	cfg := &Config{}

	cfg.Addr = getEnv("WSENTRY_ADDR", ":8080")
	cfg.DBPath = getEnv("WSENTRY_DB", defaultDBPath())
	cfg.SettingsPath = getEnv("WSENTRY_SETTINGS", "")
	cfg.MockMode = getEnvBool("WSENTRY_MOCK", false)
	cfg.APIKeyHash = getEnv("WSENTRY_API_KEY_HASH", "")
	intervalSec := getEnvInt("WSENTRY_INTERVAL", 30)

	flag.StringVar(&cfg.Addr, "addr", cfg.Addr, "HTTP server address")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to SQLite database")
	flag.StringVar(&cfg.SettingsPath, "settings", cfg.SettingsPath, "Path to YAML settings file (empty to skip)")
	flag.BoolVar(&cfg.MockMode, "mock", cfg.MockMode, "Use the mock scan source instead of the wireless adapter")
	flag.BoolVar(&cfg.Debug, "debug", false, "Enable verbose debug logging")
	flag.IntVar(&intervalSec, "interval", intervalSec, "Background scan interval in seconds")
	flag.Parse()

	if cfg.SettingsPath != "" {
		settings, err := loadSettings(cfg.SettingsPath)
		if err != nil {
			return nil, err
		}
		cfg.Settings = settings
		if cfg.Settings.ScanInterval > 0 && intervalSec == 30 {
			intervalSec = cfg.Settings.ScanInterval
		}
	}

	if intervalSec < 1 {
		intervalSec = 30
	}
	cfg.Interval = time.Duration(intervalSec) * time.Second

	return cfg, nil
}

func loadSettings(path string) (Settings, error) {
	var settings Settings
	data, err := os.ReadFile(path)
	if err != nil {
		return settings, fmt.Errorf("failed to read settings file: %w", err)
	}
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return settings, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return settings, nil
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

// defaultDBPath returns the default database path in the user's home
// directory, creating ~/.wifisentry if needed.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		log.Printf("Warning: Could not get user home directory, using current dir: %v", err)
		return "wifisentry.db"
	}

	dir := filepath.Join(home, ".wifisentry")
	if err := os.MkdirAll(dir, 0755); err != nil {
		log.Printf("Warning: Could not create .wifisentry directory, using current dir: %v", err)
		return "wifisentry.db"
	}

	return filepath.Join(dir, "wifisentry.db")
}
