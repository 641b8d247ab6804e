package config

import (
	"embed"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var defaultConfigFS embed.FS

// QueryPlaceholder is replaced by the escaped company name in source URLs.
const QueryPlaceholder = "{query}"

type Source struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"` // "rss" or "html"
	URL     string `yaml:"url"`
	Enabled bool   `yaml:"enabled"`
}

// SearchURL returns the source URL for query.
func (s Source) SearchURL(query string) string {
	return strings.ReplaceAll(s.URL, QueryPlaceholder, url.QueryEscape(query))
}

type AIConfig struct {
	Provider string `yaml:"provider"` // "claude" or "openai"
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
}

type ServerConfig struct {
	Addr string `yaml:"addr"`
}

type RedisConfig struct {
	Addr string `yaml:"addr"`
	TTL  string `yaml:"ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type Config struct {
	RefreshInterval string       `yaml:"refresh_interval"`
	Retention       string       `yaml:"retention"`
	MaxArticles     int          `yaml:"max_articles,omitempty"`
	Language        string       `yaml:"language,omitempty"`
	FetchRate       float64      `yaml:"fetch_rate,omitempty"`
	EnrichSummaries bool         `yaml:"enrich_summaries,omitempty"`
	Annotator       string       `yaml:"annotator,omitempty"`
	AudioDir        string       `yaml:"audio_dir,omitempty"`
	Sources         []Source     `yaml:"sources"`
	AI              *AIConfig    `yaml:"ai,omitempty"`
	Server          ServerConfig `yaml:"server,omitempty"`
	Redis           RedisConfig  `yaml:"redis,omitempty"`
	Log             LogConfig    `yaml:"log,omitempty"`
}

// AIEnabled returns true if an LLM annotator is selected and has a key.
func (c *Config) AIEnabled() bool {
	if c.AI == nil || c.AnnotatorName() == "local" {
		return false
	}
	return c.AIKey() != ""
}

// AIKey returns the resolved API key (config or env var).
func (c *Config) AIKey() string {
	if c.AI != nil && c.AI.APIKey != "" {
		return c.AI.APIKey
	}
	return os.Getenv("NEWSVOICE_AI_KEY")
}

// AnnotatorName returns the configured annotator, defaulting to "local".
func (c *Config) AnnotatorName() string {
	if c.Annotator == "" {
		return "local"
	}
	return c.Annotator
}

func (c *Config) RefreshDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshInterval)
	if err != nil {
		return 6 * time.Hour
	}
	return d
}

func (c *Config) RetentionDuration() time.Duration {
	if c.Retention == "" {
		return 30 * 24 * time.Hour
	}
	d, err := ParseDays(c.Retention)
	if err != nil {
		return 30 * 24 * time.Hour
	}
	return d
}

// RedisTTL returns how long cached digests stay in redis, default 1h.
func (c *Config) RedisTTL() time.Duration {
	d, err := time.ParseDuration(c.Redis.TTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// ParseDays parses a duration that may use the "Nd" day syntax.
func ParseDays(s string) (time.Duration, error) {
	if len(s) > 1 && s[len(s)-1] == 'd' {
		var days int
		if _, err := fmt.Sscanf(s, "%dd", &days); err == nil {
			return time.Duration(days) * 24 * time.Hour, nil
		}
	}
	return time.ParseDuration(s)
}

// GetMaxArticles returns how many articles a run analyzes, defaulting to 10.
func (c *Config) GetMaxArticles() int {
	if c.MaxArticles <= 0 {
		return 10
	}
	return c.MaxArticles
}

// GetLanguage returns the default summary language, defaulting to English.
func (c *Config) GetLanguage() string {
	if c.Language == "" {
		return "en"
	}
	return c.Language
}

// GetFetchRate returns requests per second allowed per fetcher.
func (c *Config) GetFetchRate() float64 {
	if c.FetchRate <= 0 {
		return 2
	}
	return c.FetchRate
}

func (c *Config) GetServerAddr() string {
	if c.Server.Addr == "" {
		return ":5000"
	}
	return c.Server.Addr
}

func (c *Config) GetAudioDir() string {
	if c.AudioDir == "" {
		return filepath.Join(xdg.CacheHome, "newsvoice", "audio")
	}
	return c.AudioDir
}

func (c *Config) EnabledSources() []Source {
	var out []Source
	for _, s := range c.Sources {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "newsvoice", "config.yaml")
}

func CachePath() string {
	return filepath.Join(xdg.CacheHome, "newsvoice", "newsvoice.db")
}

func loadDefaults() (*Config, error) {
	data, err := defaultConfigFS.ReadFile("default_config.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading embedded config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded config: %w", err)
	}
	return &cfg, nil
}

// Load reads the config at path (or the default location), writing the
// embedded defaults there on first run. A .env file in the working
// directory, if any, is loaded first so NEWSVOICE_AI_KEY can live there.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	defaults, err := loadDefaults()
	if err != nil {
		return nil, err
	}

	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Non-fatal: fall back to embedded defaults
			_ = writeDefaults(path)
			return defaults, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	mergeDefaultSources(&cfg, defaults)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// mergeDefaultSources refreshes sources the user shares with the defaults
// (matched by name) and appends default sources the user does not have yet.
// The user's enabled flag is kept.
func mergeDefaultSources(cfg, defaults *Config) {
	index := make(map[string]int, len(cfg.Sources))
	for i, s := range cfg.Sources {
		index[s.Name] = i
	}
	for _, d := range defaults.Sources {
		if i, ok := index[d.Name]; ok {
			cfg.Sources[i].URL = d.URL
			cfg.Sources[i].Type = d.Type
			continue
		}
		cfg.Sources = append(cfg.Sources, d)
	}
}

func writeDefaults(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	data, _ := defaultConfigFS.ReadFile("default_config.yaml")
	return os.WriteFile(path, data, 0o644)
}

func validate(cfg *Config) error {
	validTypes := map[string]bool{"rss": true, "html": true}
	for i, s := range cfg.Sources {
		if s.Name == "" {
			return fmt.Errorf("source %d: name is required", i)
		}
		if s.URL == "" {
			return fmt.Errorf("source %q: url is required", s.Name)
		}
		u, err := url.Parse(s.SearchURL("probe"))
		if err != nil {
			return fmt.Errorf("source %q: invalid url: %w", s.Name, err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("source %q: url scheme must be http or https, got %q", s.Name, u.Scheme)
		}
		if !strings.Contains(s.URL, QueryPlaceholder) {
			return fmt.Errorf("source %q: url must contain %s", s.Name, QueryPlaceholder)
		}
		if !validTypes[s.Type] {
			return fmt.Errorf("source %q: unknown type %q (valid: rss, html)", s.Name, s.Type)
		}
	}

	switch cfg.AnnotatorName() {
	case "local":
	case "claude", "openai":
		if cfg.AI == nil {
			return fmt.Errorf("annotator %q requires an ai section", cfg.Annotator)
		}
	default:
		return fmt.Errorf("unknown annotator %q (valid: local, claude, openai)", cfg.Annotator)
	}
	return nil
}
