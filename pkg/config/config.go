package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogDir    string `mapstructure:"LOG_DIR"`
	LogStderr bool   `mapstructure:"LOG_STDERR"`

	ScrapeOpsAPIKey     string  `mapstructure:"SCRAPEOPS_API_KEY"`
	ScrapeOpsEndpoint   string  `mapstructure:"SCRAPEOPS_HEADERS_ENDPOINT"`
	ScrapeOpsNumHeaders int     `mapstructure:"SCRAPEOPS_HEADERS_NUM"`
	ScrapeOpsRateLimit  float64 `mapstructure:"SCRAPEOPS_RATE_LIMIT"`

	HeadersCacheBackend string        `mapstructure:"HEADERS_CACHE_BACKEND"` // "file" or "redis"
	HeadersCachePath    string        `mapstructure:"HEADERS_CACHE_PATH"`
	HeadersMaxAge       time.Duration `mapstructure:"HEADERS_MAX_AGE"`

	RedisAddr       string `mapstructure:"REDIS_ADDR"`
	RedisPassword   string `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int    `mapstructure:"REDIS_DB"`
	RedisHeadersKey string `mapstructure:"REDIS_HEADERS_KEY"`

	HTMLDir          string        `mapstructure:"HTML_DIR"`
	FetchEngine      string        `mapstructure:"FETCH_ENGINE"` // "browser" or "http"
	FetchRetries     int           `mapstructure:"FETCH_RETRIES"`
	FetchRetryDelay  time.Duration `mapstructure:"FETCH_RETRY_DELAY"`
	PageLoadTimeout  time.Duration `mapstructure:"PAGE_LOAD_TIMEOUT"`
	ScrollStep       int           `mapstructure:"SCROLL_STEP"`
	ScrollWait       time.Duration `mapstructure:"SCROLL_WAIT"`
	CloudflareBypass bool          `mapstructure:"CLOUDFLARE_BYPASS"`

	GeminiAPIKey     string        `mapstructure:"GEMINI_API_KEY"`
	GeminiModel      string        `mapstructure:"GEMINI_MODEL"`
	AIRequestTimeout time.Duration `mapstructure:"AI_REQUEST_TIMEOUT"`
	AIPollInterval   time.Duration `mapstructure:"AI_POLL_INTERVAL"`
	AIRetries        int           `mapstructure:"AI_RETRIES"`
	AILogFile        string        `mapstructure:"AI_LOG_FILE"`

	AudioDir        string        `mapstructure:"AUDIO_DIR"`
	AudioFormat     string        `mapstructure:"AUDIO_FORMAT"`
	AudioQuality    string        `mapstructure:"AUDIO_QUALITY"`
	AudioRetries    int           `mapstructure:"AUDIO_RETRIES"`
	AudioRetryDelay time.Duration `mapstructure:"AUDIO_RETRY_DELAY"`
	YtdlpPath       string        `mapstructure:"YTDLP_PATH"`

	DatabaseURL string `mapstructure:"DATABASE_URL"`
	ServerPort  string `mapstructure:"SERVER_PORT"`
}

var defaults = map[string]any{
	"LOG_LEVEL":  "info",
	"LOG_DIR":    "logs",
	"LOG_STDERR": false,

	"SCRAPEOPS_API_KEY":          "",
	"SCRAPEOPS_HEADERS_ENDPOINT": "https://headers.scrapeops.io/v1/browser-headers",
	"SCRAPEOPS_HEADERS_NUM":      50,
	"SCRAPEOPS_RATE_LIMIT":       1.0,

	"HEADERS_CACHE_BACKEND": "file",
	"HEADERS_CACHE_PATH":    "headers_cache.json",
	"HEADERS_MAX_AGE":       12 * time.Hour,

	"REDIS_ADDR":        "localhost:6379",
	"REDIS_PASSWORD":    "",
	"REDIS_DB":          0,
	"REDIS_HEADERS_KEY": "scrapekit:headers",

	"HTML_DIR":          "html_parse",
	"FETCH_ENGINE":      "browser",
	"FETCH_RETRIES":     3,
	"FETCH_RETRY_DELAY": time.Second,
	"PAGE_LOAD_TIMEOUT": 30 * time.Second,
	"SCROLL_STEP":       1000,
	"SCROLL_WAIT":       time.Second,
	"CLOUDFLARE_BYPASS": true,

	"GEMINI_API_KEY":     "",
	"GEMINI_MODEL":       "gemini-2.5-flash",
	"AI_REQUEST_TIMEOUT": 2000 * time.Second,
	"AI_POLL_INTERVAL":   10 * time.Second,
	"AI_RETRIES":         3,
	"AI_LOG_FILE":        "ai_parsed_info.txt",

	"AUDIO_DIR":         "downloaded_song",
	"AUDIO_FORMAT":      "mp3",
	"AUDIO_QUALITY":     "192",
	"AUDIO_RETRIES":     3,
	"AUDIO_RETRY_DELAY": 5 * time.Second,
	"YTDLP_PATH":        "",

	"DATABASE_URL": "",
	"SERVER_PORT":  "8080",
}

// Load reads configuration from an env file and environment variables.
// An empty path means ".env". A missing file is not an error, so the
// application can be configured purely through the environment.
func Load(path string) (*Config, error) {
	if path == "" {
		path = ".env"
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("env")
	v.AutomaticEnv()
	_ = v.ReadInConfig()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects values the components cannot work with.
func (c *Config) Validate() error {
	switch c.FetchEngine {
	case "browser", "http":
	default:
		return fmt.Errorf("invalid FETCH_ENGINE %q (valid: browser, http)", c.FetchEngine)
	}
	switch c.HeadersCacheBackend {
	case "file", "redis":
	default:
		return fmt.Errorf("invalid HEADERS_CACHE_BACKEND %q (valid: file, redis)", c.HeadersCacheBackend)
	}
	if c.FetchRetries < 1 || c.AIRetries < 1 || c.AudioRetries < 1 {
		return fmt.Errorf("retry counts must be at least 1")
	}
	if c.HeadersMaxAge <= 0 {
		return fmt.Errorf("HEADERS_MAX_AGE must be positive")
	}
	return nil
}
