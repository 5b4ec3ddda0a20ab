package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var DefaultConfigYAML []byte

// WebhookURLEnv overrides notify.webhook_url when set. A local .env file is
// honored so the webhook secret can stay out of the config file.
const WebhookURLEnv = "DISCORD_WEBHOOK_URL"

type Config struct {
	ESI    ESI    `yaml:"esi"`
	Probe  Probe  `yaml:"probe"`
	Notify Notify `yaml:"notify"`
	Output Output `yaml:"output"`
}

type ESI struct {
	BaseURL      string `yaml:"base_url"`
	ImageBaseURL string `yaml:"image_base_url"`
	Datasource   string `yaml:"datasource"`
}

type Probe struct {
	Concurrency     int   `yaml:"concurrency"`
	PacingMs        int   `yaml:"pacing_ms"`
	PlaceholderSize int64 `yaml:"placeholder_size"`
}

type Notify struct {
	WebhookURL string `yaml:"webhook_url"`
}

type Output struct {
	DataDir        string `yaml:"data_dir"`
	SiteDir        string `yaml:"site_dir"`
	FooterMarkdown string `yaml:"footer_markdown"`
}

// ConfigDir returns the XDG config directory for alliancelogos.
func ConfigDir() string {
	return filepath.Join(homeDir(), ".config", "alliancelogos")
}

// DataDir returns the XDG data directory for alliancelogos.
func DataDir() string {
	return filepath.Join(homeDir(), ".local", "share", "alliancelogos")
}

// ResolveConfigPath finds the config file following priority:
// explicit path > ~/.config/alliancelogos/config.yaml > ./config.yaml
func ResolveConfigPath(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			return "", fmt.Errorf("config file not found: %s", explicit)
		}
		return explicit, nil
	}

	xdgConfig := filepath.Join(ConfigDir(), "config.yaml")
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig, nil
	}

	cwdConfig := "config.yaml"
	if _, err := os.Stat(cwdConfig); err == nil {
		return cwdConfig, nil
	}

	return "", fmt.Errorf(
		"no config file found; searched:\n  %s\n  ./config.yaml\n\nRun 'alliancelogos init' to create a default config",
		xdgConfig,
	)
}

// Load reads and parses a config YAML file, then applies environment overrides.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg, err := parse(data)
	if err != nil {
		return nil, err
	}
	applyEnv(cfg)
	return cfg, nil
}

// parse parses YAML bytes into a Config, applying defaults.
func parse(data []byte) (*Config, error) {
	cfg := &Config{
		ESI: ESI{
			BaseURL:      "https://esi.evetech.net/latest",
			ImageBaseURL: "https://images.evetech.net",
			Datasource:   "tranquility",
		},
		Probe: Probe{
			Concurrency:     10,
			PacingMs:        200,
			PlaceholderSize: 9353,
		},
		Output: Output{
			SiteDir: "docs",
		},
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if cfg.Probe.Concurrency < 1 {
		cfg.Probe.Concurrency = 1
	}
	if cfg.Probe.PacingMs < 0 {
		cfg.Probe.PacingMs = 0
	}

	return cfg, nil
}

// applyEnv loads a local .env (if present) and applies environment overrides.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()
	if url := os.Getenv(WebhookURLEnv); url != "" {
		cfg.Notify.WebhookURL = url
	}
}

// GetDataDir returns the effective data directory from config or XDG default.
func (c *Config) GetDataDir() string {
	if c.Output.DataDir != "" {
		return c.Output.DataDir
	}
	return DataDir()
}

// Pacing returns the inter-batch delay as a duration.
func (c *Config) Pacing() time.Duration {
	return time.Duration(c.Probe.PacingMs) * time.Millisecond
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
