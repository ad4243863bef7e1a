// Package gologger plugs github.com/goliatone/go-logger into the pipeline's
// logging interfaces.
package gologger

import (
	"context"
	"fmt"
	"maps"
	"strings"

	glog "github.com/goliatone/go-logger/glog"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Config mirrors the logging section of the blog configuration.
type Config struct {
	Level     string
	Format    string
	AddSource bool
	Focus     []string
}

var levels = map[string]string{
	"trace":   glog.Trace,
	"debug":   glog.Debug,
	"info":    glog.Info,
	"warn":    glog.Warn,
	"warning": glog.Warn,
	"error":   glog.Error,
	"fatal":   glog.Fatal,
}

var formats = map[string]func() glog.Option{
	"":        glog.WithLoggerTypeJSON,
	"json":    glog.WithLoggerTypeJSON,
	"console": glog.WithLoggerTypeConsole,
	"pretty":  glog.WithLoggerTypePretty,
}

// Provider hands out go-logger children named after pipeline modules
// (blog.posts, blog.feed, ...).
type Provider struct {
	root *glog.BaseLogger
}

// NewProvider builds the root go-logger from cfg. Unknown levels fall back to
// go-logger's default; unknown formats are an error.
func NewProvider(cfg Config) (*Provider, error) {
	format, ok := formats[strings.ToLower(strings.TrimSpace(cfg.Format))]
	if !ok {
		return nil, fmt.Errorf("gologger: unsupported format %q", cfg.Format)
	}
	opts := []glog.Option{format()}
	if level, ok := levels[strings.ToLower(strings.TrimSpace(cfg.Level))]; ok {
		opts = append(opts, glog.WithLevel(level))
	}
	if cfg.AddSource {
		opts = append(opts, glog.WithAddSource(true))
	}

	root := glog.NewLogger(opts...)
	var focus []string
	for _, name := range cfg.Focus {
		if name = strings.TrimSpace(name); name != "" {
			focus = append(focus, name)
		}
	}
	if len(focus) > 0 {
		root.Focus(focus...)
	}
	return &Provider{root: root}, nil
}

// GetLogger returns the child logger for module. An empty name yields the
// root logger.
func (p *Provider) GetLogger(module string) interfaces.Logger {
	if p == nil {
		return logging.NoOp()
	}
	if module = strings.TrimSpace(module); module == "" {
		return adapt(p.root)
	}
	return adapt(p.root.GetLogger(module))
}

// moduleLogger forwards the leveled calls to go-logger and converts the
// chaining methods back to interfaces.Logger.
type moduleLogger struct {
	glog.Logger
}

func adapt(inner glog.Logger) interfaces.Logger {
	if inner == nil {
		return logging.NoOp()
	}
	return moduleLogger{Logger: inner}
}

func (l moduleLogger) WithFields(fields map[string]any) interfaces.Logger {
	withFields, ok := l.Logger.(glog.FieldsLogger)
	if !ok || len(fields) == 0 {
		return l
	}
	return adapt(withFields.WithFields(maps.Clone(fields)))
}

func (l moduleLogger) WithContext(ctx context.Context) interfaces.Logger {
	if ctx == nil {
		return l
	}
	return adapt(l.Logger.WithContext(ctx))
}
