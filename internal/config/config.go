package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/creachadair/atomicfile"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	YouTube  YouTubeConfig  `yaml:"youtube"`
	Timeouts TimeoutsConfig `yaml:"timeouts"`
	Store    StoreConfig    `yaml:"store"`
	Cache    CacheConfig    `yaml:"cache"`
	Audio    AudioConfig    `yaml:"audio"`
	Log      LogConfig      `yaml:"log"`
	Paths    PathsConfig    `yaml:"paths"`
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RateLimit      float64  `yaml:"rate_limit"` // process-video requests per second
	RateBurst      int      `yaml:"rate_burst"`
	MaxBodyBytes   int64    `yaml:"max_body_bytes"`
}

// YouTubeConfig selects and configures the audio/caption backends
type YouTubeConfig struct {
	Backend            string `yaml:"backend"` // native or ytdlp
	DefaultLanguage    string `yaml:"default_language"`
	RequireCredentials bool   `yaml:"require_credentials"`
	VisitorData        string `yaml:"visitor_data"`
	POToken            string `yaml:"po_token"`
}

// TimeoutsConfig bounds the two upstream network calls
type TimeoutsConfig struct {
	Captions string `yaml:"captions"`
	Audio    string `yaml:"audio"`
}

// StoreConfig holds artifact store settings
type StoreConfig struct {
	Dir           string `yaml:"dir"`
	MaxAge        string `yaml:"max_age"`
	SweepInterval string `yaml:"sweep_interval"`
}

// CacheConfig holds transcript cache settings
type CacheConfig struct {
	Backend   string `yaml:"backend"` // memory, redis or none
	Size      int    `yaml:"size"`
	TTL       string `yaml:"ttl"`
	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
}

// AudioConfig holds transcoding settings
type AudioConfig struct {
	Bitrate string `yaml:"bitrate"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// PathsConfig holds custom path overrides
type PathsConfig struct {
	YtDlp  string `yaml:"yt_dlp"`
	FFmpeg string `yaml:"ffmpeg"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:           ":5000",
			AllowedOrigins: []string{"*"},
			RateLimit:      2,
			RateBurst:      5,
			MaxBodyBytes:   64 * 1024,
		},
		YouTube: YouTubeConfig{
			Backend:         "native",
			DefaultLanguage: "en",
		},
		Timeouts: TimeoutsConfig{
			Captions: "30s",
			Audio:    "10m",
		},
		Store: StoreConfig{
			Dir:           "",
			MaxAge:        "24h",
			SweepInterval: "30m",
		},
		Cache: CacheConfig{
			Backend: "memory",
			Size:    256,
			TTL:     "6h",
		},
		Audio: AudioConfig{
			Bitrate: "128k",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// AppDir returns the application directory (~/.ytlingo)
func AppDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".ytlingo"
	}
	return filepath.Join(home, ".ytlingo")
}

// AudioDir returns the default artifact directory
func AudioDir() string {
	return filepath.Join(os.TempDir(), "ytlingo", "audio")
}

// BinDir returns the bin directory
func BinDir() string {
	return filepath.Join(AppDir(), "bin")
}

// ConfigPath returns the config file path
func ConfigPath() string {
	return filepath.Join(AppDir(), "config.yaml")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{AppDir(), BinDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Load reads config from file, returns default if not exists
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, err
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// LoadDefault loads .env files, the config file at the default path, and
// finally applies YTLINGO_* environment overrides
func LoadDefault() (*Config, error) {
	_ = godotenv.Load() // best-effort: load .env if present

	cfg, err := Load(ConfigPath())
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("YTLINGO_ADDR", &c.Server.Addr)
	str("YTLINGO_BACKEND", &c.YouTube.Backend)
	str("YTLINGO_LANGUAGE", &c.YouTube.DefaultLanguage)
	str("YTLINGO_VISITOR_DATA", &c.YouTube.VisitorData)
	str("YTLINGO_PO_TOKEN", &c.YouTube.POToken)
	str("YTLINGO_STORE_DIR", &c.Store.Dir)
	str("YTLINGO_STORE_MAX_AGE", &c.Store.MaxAge)
	str("YTLINGO_CACHE_BACKEND", &c.Cache.Backend)
	str("YTLINGO_REDIS_ADDR", &c.Cache.RedisAddr)
	str("YTLINGO_REDIS_PASSWORD", &c.Cache.RedisPassword)
	str("YTLINGO_LOG_LEVEL", &c.Log.Level)
	str("YTLINGO_LOG_FORMAT", &c.Log.Format)
	str("YTLINGO_YT_DLP", &c.Paths.YtDlp)
	str("YTLINGO_FFMPEG", &c.Paths.FFmpeg)

	if v, ok := lookup("YTLINGO_ALLOWED_ORIGINS"); ok && v != "" {
		var origins []string
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				origins = append(origins, o)
			}
		}
		c.Server.AllowedOrigins = origins
	}

	if v, ok := lookup("YTLINGO_REQUIRE_CREDENTIALS"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid YTLINGO_REQUIRE_CREDENTIALS: %w", err)
		}
		c.YouTube.RequireCredentials = b
	}

	return nil
}

// Validate checks enumerated settings and duration formats
func (c *Config) Validate() error {
	switch c.YouTube.Backend {
	case "native", "ytdlp":
	default:
		return fmt.Errorf("unknown youtube backend: %s (use native or ytdlp)", c.YouTube.Backend)
	}

	switch c.Cache.Backend {
	case "memory", "redis", "none":
	default:
		return fmt.Errorf("unknown cache backend: %s (use memory, redis or none)", c.Cache.Backend)
	}
	if c.Cache.Backend == "redis" && c.Cache.RedisAddr == "" {
		return fmt.Errorf("cache.redis_addr is required for the redis cache backend")
	}

	for name, value := range map[string]string{
		"timeouts.captions":    c.Timeouts.Captions,
		"timeouts.audio":       c.Timeouts.Audio,
		"store.max_age":        c.Store.MaxAge,
		"store.sweep_interval": c.Store.SweepInterval,
		"cache.ttl":            c.Cache.TTL,
	} {
		if _, err := ParseDuration(value); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}

	return nil
}

// Save writes config to file
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	f, err := atomicfile.New(path, 0600)
	if err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	defer f.Cancel()
	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return f.Close()
}

// SaveDefault saves config to default path
func (c *Config) SaveDefault() error {
	return c.Save(ConfigPath())
}

// StoreDir returns the configured artifact directory or the default
func (c *Config) StoreDir() string {
	if c.Store.Dir != "" {
		return c.Store.Dir
	}
	return AudioDir()
}

var durationPattern = regexp.MustCompile(`^(\d+)(s|m|h|d)$`)

// ParseDuration parses duration strings like "45s", "30m", "24h", "7d"
func ParseDuration(s string) (time.Duration, error) {
	matches := durationPattern.FindStringSubmatch(s)
	if len(matches) != 3 {
		return 0, fmt.Errorf("invalid duration format: %s (use format like 30m, 24h, 7d)", s)
	}

	value, _ := strconv.Atoi(matches[1])
	unit := matches[2]

	switch unit {
	case "s":
		return time.Duration(value) * time.Second, nil
	case "m":
		return time.Duration(value) * time.Minute, nil
	case "h":
		return time.Duration(value) * time.Hour, nil
	case "d":
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("unknown duration unit: %s", unit)
	}
}

// MustDuration parses s, falling back to def when s is invalid
func MustDuration(s string, def time.Duration) time.Duration {
	d, err := ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}
