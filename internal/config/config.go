package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/goccy/go-yaml"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid configuration")

const (
	DriverFile   = "file"
	DriverSQLite = "sqlite"

	DefaultHistoryFile = "status_history.json"
	DefaultHistoryDB   = "status_history.db"
	DefaultSMTPPort    = 587
)

// Config is the root configuration document
type Config struct {
	Monitor   MonitorConfig             `json:"monitor" yaml:"monitor"`
	Platforms map[string]PlatformConfig `json:"platforms" yaml:"platforms"`
	Email     EmailConfig               `json:"email" yaml:"email"`
	Telegram  TelegramConfig            `json:"telegram" yaml:"telegram"`
	Twitter   TwitterConfig             `json:"twitter" yaml:"twitter"`
	History   HistoryConfig             `json:"history" yaml:"history"`
}

// MonitorConfig names the page and match to watch
type MonitorConfig struct {
	Platform        string `json:"platform" yaml:"platform"`
	URL             string `json:"url" yaml:"url"`
	MatchIdentifier string `json:"match_identifier" yaml:"match_identifier"`
}

// PlatformConfig describes one ticketing site.
// PossibleStatuses is ordered: when labels overlap, list the most specific first.
type PlatformConfig struct {
	Enabled          bool     `json:"enabled" yaml:"enabled"`
	BaseURL          string   `json:"base_url" yaml:"base_url"`
	PossibleStatuses []string `json:"possible_statuses" yaml:"possible_statuses"`
	NotifyStatuses   []string `json:"notify_statuses" yaml:"notify_statuses"`
	CloudflareBypass bool     `json:"cloudflare_bypass" yaml:"cloudflare_bypass"`
}

// ShouldNotify reports whether status is one of the configured trigger statuses
func (p PlatformConfig) ShouldNotify(status string) bool {
	for _, s := range p.NotifyStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type EmailConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	SMTPServer     string `json:"smtp_server" yaml:"smtp_server"`
	SMTPPort       int    `json:"smtp_port" yaml:"smtp_port"`
	SenderEmail    string `json:"sender_email" yaml:"sender_email"`
	SenderPassword string `json:"sender_password" yaml:"sender_password"`
	RecipientEmail string `json:"recipient_email" yaml:"recipient_email"`
}

type TelegramConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	BotToken string `json:"bot_token" yaml:"bot_token"`
	ChatID   string `json:"chat_id" yaml:"chat_id"`
}

type TwitterConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	APIKey       string `json:"api_key" yaml:"api_key"`
	APISecret    string `json:"api_secret" yaml:"api_secret"`
	AccessToken  string `json:"access_token" yaml:"access_token"`
	AccessSecret string `json:"access_secret" yaml:"access_secret"`
}

// HistoryConfig selects where status history is persisted
type HistoryConfig struct {
	Driver string `json:"driver" yaml:"driver"`
	Path   string `json:"path" yaml:"path"`
}

// Load reads, merges, and validates the configuration at path.
func Load(path string) (*Config, error) {
	cfg, err := read(path)
	if err != nil {
		return nil, err
	}

	applyDefaults(cfg)
	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadEnvFile loads variables from a .env file into the process environment.
// A missing file is not an error; existing variables are never overwritten.
func LoadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

// read decodes path and merges <name>.local.<ext> over it when present
func read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := decode(path, data, &cfg); err != nil {
		return nil, err
	}

	localPath := localPath(path)
	localData, err := os.ReadFile(localPath)
	if err != nil {
		if os.IsNotExist(err) {
			return &cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", localPath, err)
	}

	var override Config
	if err := decode(localPath, localData, &override); err != nil {
		return nil, err
	}
	var raw map[string]interface{}
	if err := decode(localPath, localData, &raw); err != nil {
		return nil, err
	}
	if err := merge(&cfg, override, raw); err != nil {
		return nil, fmt.Errorf("merging %s: %w", localPath, err)
	}

	return &cfg, nil
}

// merge lays override over cfg field by field. Platform entries are merged
// individually so a local file can change one setting of one platform.
// mergo skips zero values, so booleans present in raw are applied explicitly
// to let a local file turn a flag off.
func merge(cfg *Config, override Config, raw map[string]interface{}) error {
	platforms := override.Platforms
	override.Platforms = nil

	if err := mergo.Merge(cfg, override, mergo.WithOverride); err != nil {
		return err
	}

	if len(platforms) > 0 && cfg.Platforms == nil {
		cfg.Platforms = make(map[string]PlatformConfig, len(platforms))
	}
	for name, p := range platforms {
		base, ok := cfg.Platforms[name]
		if !ok {
			cfg.Platforms[name] = p
			continue
		}
		if err := mergo.Merge(&base, p, mergo.WithOverride); err != nil {
			return fmt.Errorf("platform %s: %w", name, err)
		}
		cfg.Platforms[name] = base
	}

	setBool(&cfg.Email.Enabled, raw, "email", "enabled")
	setBool(&cfg.Telegram.Enabled, raw, "telegram", "enabled")
	setBool(&cfg.Twitter.Enabled, raw, "twitter", "enabled")
	for name, p := range cfg.Platforms {
		setBool(&p.Enabled, raw, "platforms", name, "enabled")
		setBool(&p.CloudflareBypass, raw, "platforms", name, "cloudflare_bypass")
		cfg.Platforms[name] = p
	}
	return nil
}

// setBool copies the boolean at the given key path of raw into dst, if set
func setBool(dst *bool, raw map[string]interface{}, keys ...string) {
	var node interface{} = raw
	for _, k := range keys {
		m, ok := node.(map[string]interface{})
		if !ok {
			return
		}
		if node, ok = m[k]; !ok {
			return
		}
	}
	if b, ok := node.(bool); ok {
		*dst = b
	}
}

func decode(path string, data []byte, out interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing YAML %s: %w", path, err)
		}
	default:
		if err := json5.Unmarshal(data, out); err != nil {
			return fmt.Errorf("parsing JSON %s: %w", path, err)
		}
	}
	return nil
}

// localPath turns config.json into config.local.json
func localPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

func applyDefaults(cfg *Config) {
	cfg.Monitor.Platform = strings.TrimSpace(cfg.Monitor.Platform)
	cfg.Monitor.URL = strings.TrimSpace(cfg.Monitor.URL)
	cfg.Monitor.MatchIdentifier = strings.TrimSpace(cfg.Monitor.MatchIdentifier)

	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = DefaultSMTPPort
	}

	cfg.History.Driver = strings.ToLower(strings.TrimSpace(cfg.History.Driver))
	if cfg.History.Driver == "" {
		cfg.History.Driver = DriverFile
	}
	if strings.TrimSpace(cfg.History.Path) == "" {
		if cfg.History.Driver == DriverSQLite {
			cfg.History.Path = DefaultHistoryDB
		} else {
			cfg.History.Path = DefaultHistoryFile
		}
	}
}

// applyEnv lets secrets live outside the config file
func applyEnv(cfg *Config) {
	setFromEnv(&cfg.Email.SenderPassword, "SMTP_PASSWORD")
	setFromEnv(&cfg.Telegram.BotToken, "TELEGRAM_BOT_TOKEN")
	setFromEnv(&cfg.Telegram.ChatID, "TELEGRAM_CHAT_ID")
	setFromEnv(&cfg.Twitter.APIKey, "TWITTER_API_KEY")
	setFromEnv(&cfg.Twitter.APISecret, "TWITTER_API_SECRET")
	setFromEnv(&cfg.Twitter.AccessToken, "TWITTER_ACCESS_TOKEN")
	setFromEnv(&cfg.Twitter.AccessSecret, "TWITTER_ACCESS_SECRET")
}

func setFromEnv(dst *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*dst = v
	}
}

// Platform returns the configuration of the monitored platform, which must
// exist and be enabled.
func (c *Config) Platform() (PlatformConfig, error) {
	name := c.Monitor.Platform
	p, ok := c.Platforms[name]
	if !ok {
		return PlatformConfig{}, fmt.Errorf("%w: platform %q not found in configuration", ErrInvalidConfig, name)
	}
	if !p.Enabled {
		return PlatformConfig{}, fmt.Errorf("%w: platform %q is disabled in configuration", ErrInvalidConfig, name)
	}
	return p, nil
}

// Validate checks everything needed before any network I/O happens.
// The match identifier format is deliberately not checked here: a malformed
// identifier is reported as a check result, not a configuration error.
func (c *Config) Validate() error {
	p, err := c.Platform()
	if err != nil {
		return err
	}

	if c.Monitor.URL == "" || c.Monitor.MatchIdentifier == "" {
		return fmt.Errorf("%w: URL or match identifier not found in configuration", ErrInvalidConfig)
	}
	if !strings.HasPrefix(c.Monitor.URL, "http://") && !strings.HasPrefix(c.Monitor.URL, "https://") {
		return fmt.Errorf("%w: monitor url must start with http:// or https://", ErrInvalidConfig)
	}

	if len(p.PossibleStatuses) == 0 {
		return fmt.Errorf("%w: platform %q has no possible_statuses", ErrInvalidConfig, c.Monitor.Platform)
	}
	possible := make(map[string]struct{}, len(p.PossibleStatuses))
	for _, s := range p.PossibleStatuses {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%w: platform %q has an empty status label", ErrInvalidConfig, c.Monitor.Platform)
		}
		possible[s] = struct{}{}
	}
	for _, s := range p.NotifyStatuses {
		if _, ok := possible[s]; !ok {
			return fmt.Errorf("%w: notify status %q is not one of possible_statuses", ErrInvalidConfig, s)
		}
	}

	if c.Email.Enabled {
		if c.Email.SMTPServer == "" || c.Email.SenderEmail == "" || c.Email.RecipientEmail == "" {
			return fmt.Errorf("%w: email enabled but smtp_server, sender_email or recipient_email missing", ErrInvalidConfig)
		}
	}
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" || c.Telegram.ChatID == "" {
			return fmt.Errorf("%w: telegram enabled but bot_token or chat_id missing", ErrInvalidConfig)
		}
	}
	if c.Twitter.Enabled {
		if c.Twitter.APIKey == "" || c.Twitter.APISecret == "" || c.Twitter.AccessToken == "" || c.Twitter.AccessSecret == "" {
			return fmt.Errorf("%w: twitter enabled but credentials missing", ErrInvalidConfig)
		}
	}

	switch c.History.Driver {
	case DriverFile, DriverSQLite:
	default:
		return fmt.Errorf("%w: unknown history driver %q (use %q or %q)", ErrInvalidConfig, c.History.Driver, DriverFile, DriverSQLite)
	}

	return nil
}
