package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrContentDirRequired     = errors.New("blog config: content directory is required")
	ErrOutputDirRequired      = errors.New("blog config: generator output directory is required")
	ErrBaseURLInvalid         = errors.New("blog config: site base url must be absolute (http or https)")
	ErrWorkersInvalid         = errors.New("blog config: generator workers must be zero or positive")
	ErrFeedMaxItemsInvalid    = errors.New("blog config: feed max items must be zero or positive")
	ErrServerAddrRequired     = errors.New("blog config: server address is required")
	ErrDebounceInvalid        = errors.New("blog config: watch debounce must be positive")
	ErrLoggingProviderUnknown = errors.New("blog config: logging provider is invalid")
	ErrLoggingLevelInvalid    = errors.New("blog config: logging level is invalid")
	ErrLoggingFormatInvalid   = errors.New("blog config: logging format is invalid")
)

// Config aggregates every setting the blog pipeline and its commands read.
type Config struct {
	Site      SiteConfig      `mapstructure:"site"`
	Content   ContentConfig   `mapstructure:"content"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Markdown  MarkdownConfig  `mapstructure:"markdown"`
	Server    ServerConfig    `mapstructure:"server"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// SiteConfig describes the published site and its feed.
type SiteConfig struct {
	Title    string `mapstructure:"title"`
	Subtitle string `mapstructure:"subtitle"`
	BaseURL  string `mapstructure:"base_url"`
	Author   string `mapstructure:"author"`
	Language string `mapstructure:"language"`
}

// ContentConfig points at the post sources.
type ContentConfig struct {
	Dir       string `mapstructure:"dir"`
	Pattern   string `mapstructure:"pattern"`
	Recursive bool   `mapstructure:"recursive"`
	// Manifest, when set, lists posts from a JSON index relative to Dir
	// instead of walking the directory.
	Manifest    string `mapstructure:"manifest"`
	ReadingList string `mapstructure:"reading_list"`
}

// GeneratorConfig captures build behaviour.
type GeneratorConfig struct {
	OutputDir        string `mapstructure:"output_dir"`
	GenerateSitemap  bool   `mapstructure:"generate_sitemap"`
	FailOnLoadErrors bool   `mapstructure:"fail_on_load_errors"`
	Workers          int    `mapstructure:"workers"`
	FeedMaxItems     int    `mapstructure:"feed_max_items"`
}

// MarkdownConfig mirrors interfaces.ParseOptions.
type MarkdownConfig struct {
	Extensions []string `mapstructure:"extensions"`
	HardWraps  bool     `mapstructure:"hard_wraps"`
	SafeMode   bool     `mapstructure:"safe_mode"`
}

// ServerConfig controls the preview server.
type ServerConfig struct {
	Addr     string        `mapstructure:"addr"`
	Watch    bool          `mapstructure:"watch"`
	Debounce time.Duration `mapstructure:"debounce"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `mapstructure:"provider"`
	Level     string   `mapstructure:"level"`
	Format    string   `mapstructure:"format"`
	AddSource bool     `mapstructure:"add_source"`
	Focus     []string `mapstructure:"focus"`
}

// DefaultConfig returns the settings used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Site: SiteConfig{
			Title:    "Blog",
			BaseURL:  "http://localhost:8080",
			Language: "en",
		},
		Content: ContentConfig{
			Dir:       "content",
			Pattern:   "*.md",
			Recursive: true,
		},
		Generator: GeneratorConfig{
			OutputDir:       "public",
			GenerateSitemap: true,
		},
		Server: ServerConfig{
			Addr:     ":8080",
			Watch:    true,
			Debounce: 500 * time.Millisecond,
		},
		Logging: LoggingConfig{
			Provider: "console",
			Level:    "info",
		},
	}
}

// Validate checks the configuration for inconsistent values.
func (cfg Config) Validate() error {
	if strings.TrimSpace(cfg.Content.Dir) == "" {
		return ErrContentDirRequired
	}
	if strings.TrimSpace(cfg.Generator.OutputDir) == "" {
		return ErrOutputDirRequired
	}
	if base := strings.TrimSpace(cfg.Site.BaseURL); base != "" &&
		!strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		return fmt.Errorf("%w: %s", ErrBaseURLInvalid, base)
	}
	if cfg.Generator.Workers < 0 {
		return ErrWorkersInvalid
	}
	if cfg.Generator.FeedMaxItems < 0 {
		return ErrFeedMaxItemsInvalid
	}
	if strings.TrimSpace(cfg.Server.Addr) == "" {
		return ErrServerAddrRequired
	}
	if cfg.Server.Watch && cfg.Server.Debounce <= 0 {
		return ErrDebounceInvalid
	}

	provider := normalizeProvider(cfg.Logging.Provider)
	if provider != "" && !isSupportedProvider(provider) {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if provider == "gologger" {
		if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
			return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
		}
	}
	return nil
}

func normalizeProvider(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

func isSupportedProvider(provider string) bool {
	switch provider {
	case "console", "gologger":
		return true
	default:
		return false
	}
}

func isSupportedLevel(level string) bool {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
