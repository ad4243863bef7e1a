package runtimeconfig_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-blog/internal/runtimeconfig"
)

func TestDefaultConfigIsValid(t *testing.T) {
	if err := runtimeconfig.DefaultConfig().Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cases := map[string]struct {
		mutate func(*runtimeconfig.Config)
		want   error
	}{
		"content dir": {
			mutate: func(c *runtimeconfig.Config) { c.Content.Dir = " " },
			want:   runtimeconfig.ErrContentDirRequired,
		},
		"output dir": {
			mutate: func(c *runtimeconfig.Config) { c.Generator.OutputDir = "" },
			want:   runtimeconfig.ErrOutputDirRequired,
		},
		"base url": {
			mutate: func(c *runtimeconfig.Config) { c.Site.BaseURL = "example.com" },
			want:   runtimeconfig.ErrBaseURLInvalid,
		},
		"workers": {
			mutate: func(c *runtimeconfig.Config) { c.Generator.Workers = -1 },
			want:   runtimeconfig.ErrWorkersInvalid,
		},
		"feed max items": {
			mutate: func(c *runtimeconfig.Config) { c.Generator.FeedMaxItems = -5 },
			want:   runtimeconfig.ErrFeedMaxItemsInvalid,
		},
		"server addr": {
			mutate: func(c *runtimeconfig.Config) { c.Server.Addr = "" },
			want:   runtimeconfig.ErrServerAddrRequired,
		},
		"debounce": {
			mutate: func(c *runtimeconfig.Config) { c.Server.Debounce = 0 },
			want:   runtimeconfig.ErrDebounceInvalid,
		},
		"logging provider": {
			mutate: func(c *runtimeconfig.Config) { c.Logging.Provider = "syslog" },
			want:   runtimeconfig.ErrLoggingProviderUnknown,
		},
		"logging level": {
			mutate: func(c *runtimeconfig.Config) { c.Logging.Level = "loud" },
			want:   runtimeconfig.ErrLoggingLevelInvalid,
		},
		"logging format": {
			mutate: func(c *runtimeconfig.Config) {
				c.Logging.Provider = "gologger"
				c.Logging.Format = "xml"
			},
			want: runtimeconfig.ErrLoggingFormatInvalid,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := runtimeconfig.DefaultConfig()
			tc.mutate(&cfg)
			if err := cfg.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestConfigValidate_AllowsDisabledWatchWithoutDebounce(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Server.Watch = false
	cfg.Server.Debounce = 0

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}

func TestConfigValidate_IgnoresFormatForConsoleProvider(t *testing.T) {
	cfg := runtimeconfig.DefaultConfig()
	cfg.Logging.Format = "xml"

	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() returned unexpected error: %v", err)
	}
}
