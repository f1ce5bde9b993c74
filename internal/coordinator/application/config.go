package application

import (
	"errors"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	usage "dominion-bridge/internal/usage/domain"
	"dominion-bridge/internal/usage/infrastructure/excel"
)

// DefaultUpdateInterval is how often the pipeline refreshes when no
// interval is configured.
const DefaultUpdateInterval = 12 * time.Hour

// Config defines pipeline configuration.
type Config struct {
	Account              string `yaml:"account"`
	Timezone             string `yaml:"timezone"`
	PowerSheet           string `yaml:"power_sheet"`
	EnergySheet          string `yaml:"energy_sheet"`
	DSTPolicy            string `yaml:"dst_policy"`
	CorrectionWindowDays int    `yaml:"correction_window_days"`
	UpdateInterval       string `yaml:"update_interval"`
	DownloadDir          string `yaml:"download_dir"`
	KeepDownloads        bool   `yaml:"keep_downloads"`
}

// LoadConfig loads config from yaml or env.
func LoadConfig() (Config, error) {
	cfg := Config{
		Account:              os.Getenv("DOMINION_ACCOUNT"),
		Timezone:             getenvDefault("DOMINION_TIMEZONE", "America/New_York"),
		PowerSheet:           getenvDefault("DOMINION_POWER_SHEET", excel.DefaultPowerSheet),
		EnergySheet:          getenvDefault("DOMINION_ENERGY_SHEET", excel.DefaultEnergySheet),
		DSTPolicy:            getenvDefault("DOMINION_DST_POLICY", "earliest"),
		CorrectionWindowDays: getenvIntDefault("DOMINION_CORRECTION_WINDOW_DAYS", 0),
		UpdateInterval:       getenvDefault("DOMINION_UPDATE_INTERVAL", ""),
		DownloadDir:          getenvDefault("DOMINION_DOWNLOAD_DIR", os.TempDir()),
	}

	if path := os.Getenv("DOMINION_CONFIG"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, err
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	}

	if cfg.Account == "" {
		return cfg, errors.New("coordinator: account required")
	}
	if _, err := cfg.Location(); err != nil {
		return cfg, err
	}
	if _, err := cfg.Policy(); err != nil {
		return cfg, err
	}
	if _, err := cfg.Interval(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Location resolves the configured IANA timezone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return nil, errors.New("coordinator: timezone required")
	}
	return time.LoadLocation(c.Timezone)
}

// Policy resolves the configured ambiguous-time policy.
func (c Config) Policy() (usage.DSTPolicy, error) {
	switch c.DSTPolicy {
	case "", "earliest":
		return usage.ResolveEarliest, nil
	case "latest":
		return usage.ResolveLatest, nil
	default:
		return usage.ResolveEarliest, errors.New("coordinator: unknown dst policy " + strconv.Quote(c.DSTPolicy))
	}
}

// Interval resolves the configured refresh interval.
func (c Config) Interval() (time.Duration, error) {
	if c.UpdateInterval == "" {
		return DefaultUpdateInterval, nil
	}
	d, err := time.ParseDuration(c.UpdateInterval)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("coordinator: update interval must be positive")
	}
	return d, nil
}

func getenvDefault(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvIntDefault(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}
