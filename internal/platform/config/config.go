package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"prepdeck/internal/platform/logging"
)

const appName = "prepdeck"

type Config struct {
	DataDir         string                `yaml:"data_dir" toml:"data_dir"`
	DBPath          string                `yaml:"db_path" toml:"db_path"`
	StatePath       string                `yaml:"state_path" toml:"state_path"`
	Decks           map[string]DeckConfig `yaml:"decks" toml:"decks"`
	Proxy           ProxyConfig           `yaml:"proxy" toml:"proxy"`
	Cache           CacheConfig           `yaml:"cache" toml:"cache"`
	FetchTimeout    Duration              `yaml:"fetch_timeout" toml:"fetch_timeout"`
	ListenAddr      string                `yaml:"listen_addr" toml:"listen_addr"`
	RefreshSchedule string                `yaml:"refresh_schedule" toml:"refresh_schedule"`
	LogLevel        string                `yaml:"log_level" toml:"log_level"`
	LogFormat       string                `yaml:"log_format" toml:"log_format"`
}

type DeckConfig struct {
	URL     string   `yaml:"url" toml:"url"`
	Weights *Weights `yaml:"weights" toml:"weights"`
}

type Weights struct {
	Red    float64 `yaml:"red" toml:"red"`
	Yellow float64 `yaml:"yellow" toml:"yellow"`
	Green  float64 `yaml:"green" toml:"green"`
}

// ProxyConfig describes both sides of the CSV proxy: the URL clients fall back
// to and the allow-list the server enforces.
type ProxyConfig struct {
	URL             string `yaml:"url" toml:"url"`
	AllowHost       string `yaml:"allow_host" toml:"allow_host"`
	AllowPathPrefix string `yaml:"allow_path_prefix" toml:"allow_path_prefix"`
}

type CacheConfig struct {
	Prefix string   `yaml:"prefix" toml:"prefix"`
	TTL    Duration `yaml:"ttl" toml:"ttl"`
}

// Duration decodes "6h"-style strings from both YAML and TOML.
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(strings.TrimSpace(string(text)))
	if err != nil {
		return fmt.Errorf("parse duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	return d.UnmarshalText([]byte(node.Value))
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

var defaultWeights = map[string]Weights{
	"leetcode":      {Red: 0.6, Yellow: 0.3, Green: 0.1},
	"system_design": {Red: 0.5, Yellow: 0.35, Green: 0.15},
}

// Defaults returns a Config with every default applied and paths rooted in
// the XDG data directory.
func Defaults() Config {
	cfg := Config{
		DataDir: filepath.Join(XDGDataHome(), appName),
		Decks:   map[string]DeckConfig{},
		Proxy: ProxyConfig{
			AllowHost:       "docs.google.com",
			AllowPathPrefix: "/spreadsheets/",
		},
		Cache: CacheConfig{
			Prefix: "deck-cache:v2",
			TTL:    Duration{6 * time.Hour},
		},
		FetchTimeout: Duration{25 * time.Second},
		ListenAddr:   "127.0.0.1:8787",
		LogLevel:     "info",
		LogFormat:    "text",
	}
	for name, w := range defaultWeights {
		cfg.Decks[name] = DeckConfig{Weights: &w}
	}
	return cfg
}

// Load reads path (YAML or TOML by extension). An empty path means the default
// location; a missing file yields the defaults. Environment overrides win over
// the file.
func Load(path string) (Config, error) {
	cfg := Defaults()
	if path == "" {
		path = DefaultPath()
	}
	if err := decodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	applyEnv(&cfg)
	cfg.fillDerived()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func decodeFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return fmt.Errorf("decode toml config %s: %w", path, err)
		}
	case ".yaml", ".yml", "":
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("decode yaml config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("unsupported config format %q", filepath.Ext(path))
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("PREPDECK_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("PREPDECK_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	for env, deck := range map[string]string{
		"PREPDECK_LC_CSV_URL": "leetcode",
		"PREPDECK_SD_CSV_URL": "system_design",
	} {
		if v := os.Getenv(env); v != "" {
			d := cfg.Decks[deck]
			d.URL = v
			cfg.Decks[deck] = d
		}
	}
}

func (c *Config) fillDerived() {
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "prepdeck.db")
	}
	if c.StatePath == "" {
		c.StatePath = filepath.Join(c.DataDir, "practice.yaml")
	}
	if c.Decks == nil {
		c.Decks = map[string]DeckConfig{}
	}
	for name, w := range defaultWeights {
		d := c.Decks[name]
		if d.Weights == nil {
			d.Weights = &w
		}
		c.Decks[name] = d
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("data_dir is required")
	}
	for name, d := range c.Decks {
		if _, ok := defaultWeights[name]; !ok {
			return fmt.Errorf("unknown deck %q in config", name)
		}
		if d.Weights != nil && (d.Weights.Red < 0 || d.Weights.Yellow < 0 || d.Weights.Green < 0) {
			return fmt.Errorf("deck %q: weights must be non-negative", name)
		}
	}
	if strings.TrimSpace(c.Proxy.AllowHost) == "" {
		return fmt.Errorf("proxy.allow_host is required")
	}
	if c.Cache.TTL.Duration < 0 {
		return fmt.Errorf("cache.ttl must be non-negative")
	}
	if c.FetchTimeout.Duration <= 0 {
		return fmt.Errorf("fetch_timeout must be positive")
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// DeckURL returns the configured CSV URL for deck, or "".
func (c Config) DeckURL(deck string) string {
	return c.Decks[deck].URL
}

// DeckWeights returns the configured default weights for deck.
func (c Config) DeckWeights(deck string) Weights {
	if d, ok := c.Decks[deck]; ok && d.Weights != nil {
		return *d.Weights
	}
	return defaultWeights[deck]
}

// DefaultPath returns config.yaml under the XDG config directory, or
// config.toml when only that one exists.
func DefaultPath() string {
	dir := filepath.Join(XDGConfigHome(), appName)
	yamlPath := filepath.Join(dir, "config.yaml")
	if _, err := os.Stat(yamlPath); os.IsNotExist(err) {
		tomlPath := filepath.Join(dir, "config.toml")
		if _, err := os.Stat(tomlPath); err == nil {
			return tomlPath
		}
	}
	return yamlPath
}

// XDGDataHome returns XDG_DATA_HOME or its default.
func XDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share")
}

// XDGConfigHome returns XDG_CONFIG_HOME or its default.
func XDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}
