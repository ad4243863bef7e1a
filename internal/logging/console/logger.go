// Package console writes build and preview-server logs as single
// logfmt-style lines: timestamp, level, event name, then sorted key=value
// pairs. It is the default provider when the blog runs from a terminal.
package console

import (
	"context"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

// Level is the severity of a log line.
type Level uint8

const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelFatal
)

var levelLabels = [...]string{
	LevelTrace: "TRACE",
	LevelDebug: "DEBUG",
	LevelInfo:  "INFO",
	LevelWarn:  "WARN",
	LevelError: "ERROR",
	LevelFatal: "FATAL",
}

var levelAliases = map[string]Level{
	"trace":   LevelTrace,
	"debug":   LevelDebug,
	"info":    LevelInfo,
	"warn":    LevelWarn,
	"warning": LevelWarn,
	"error":   LevelError,
	"fatal":   LevelFatal,
}

func (l Level) String() string {
	if int(l) < len(levelLabels) {
		return levelLabels[l]
	}
	return levelLabels[LevelInfo]
}

// ParseLevel reads the logging.level config value. Unknown values resolve
// to LevelInfo with ok=false.
func ParseLevel(value string) (Level, bool) {
	level, ok := levelAliases[strings.ToLower(strings.TrimSpace(value))]
	if !ok {
		return LevelInfo, false
	}
	return level, true
}

// Options configures NewProvider. The zero value logs DEBUG and above to
// stderr using the wall clock.
type Options struct {
	Writer   io.Writer
	TimeFunc func() time.Time
	MinLevel *Level
}

// sink is shared by every logger a provider hands out so lines from
// concurrent loader workers never interleave.
type sink struct {
	mu  sync.Mutex
	out io.Writer
	now func() time.Time
	min Level
}

func (s *sink) enabled(level Level) bool {
	return s != nil && level >= s.min
}

func (s *sink) write(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	// a broken log sink never fails a build
	_, _ = io.WriteString(s.out, line)
}

type provider struct {
	sink *sink
}

// NewProvider returns a LoggerProvider whose loggers tag every line with
// logger=<name>.
func NewProvider(opts Options) interfaces.LoggerProvider {
	s := &sink{out: opts.Writer, now: opts.TimeFunc, min: LevelDebug}
	if s.out == nil {
		s.out = os.Stderr
	}
	if s.now == nil {
		s.now = time.Now
	}
	if opts.MinLevel != nil {
		s.min = *opts.MinLevel
	}
	return &provider{sink: s}
}

func (p *provider) GetLogger(name string) interfaces.Logger {
	return &lineLogger{sink: p.sink, base: map[string]any{"logger": name}}
}

type lineLogger struct {
	sink *sink
	base map[string]any
	ctx  context.Context
}

var (
	_ interfaces.Logger       = (*lineLogger)(nil)
	_ interfaces.FieldsLogger = (*lineLogger)(nil)
)

func (l *lineLogger) Trace(msg string, args ...any) { l.emit(LevelTrace, msg, args) }
func (l *lineLogger) Debug(msg string, args ...any) { l.emit(LevelDebug, msg, args) }
func (l *lineLogger) Info(msg string, args ...any)  { l.emit(LevelInfo, msg, args) }
func (l *lineLogger) Warn(msg string, args ...any)  { l.emit(LevelWarn, msg, args) }
func (l *lineLogger) Error(msg string, args ...any) { l.emit(LevelError, msg, args) }
func (l *lineLogger) Fatal(msg string, args ...any) { l.emit(LevelFatal, msg, args) }

func (l *lineLogger) WithFields(fields map[string]any) interfaces.Logger {
	if len(fields) == 0 {
		return l
	}
	next := &lineLogger{sink: l.sink, ctx: l.ctx, base: maps.Clone(l.base)}
	if next.base == nil {
		next.base = make(map[string]any, len(fields))
	}
	maps.Copy(next.base, fields)
	return next
}

func (l *lineLogger) WithContext(ctx context.Context) interfaces.Logger {
	return &lineLogger{sink: l.sink, base: l.base, ctx: ctx}
}

// emit layers fields so call-site args win over context fields, which win
// over fields bound with WithFields.
func (l *lineLogger) emit(level Level, event string, args []any) {
	if !l.sink.enabled(level) {
		return
	}
	fields := maps.Clone(l.base)
	if fields == nil {
		fields = map[string]any{}
	}
	maps.Copy(fields, logging.ContextFields(l.ctx))
	bindArgs(fields, args)

	l.sink.write(renderLine(l.sink.now(), level, event, fields))
}

// bindArgs reads args as key/value pairs. A non-string or empty key, and a
// trailing value with no partner, are stored under field_<pair index>.
func bindArgs(dst map[string]any, args []any) {
	for pair := 0; pair*2 < len(args); pair++ {
		first := args[pair*2]
		if pair*2+1 == len(args) {
			dst[positional(pair)] = first
			return
		}
		key, ok := first.(string)
		if !ok || key == "" {
			key = positional(pair)
		}
		dst[key] = args[pair*2+1]
	}
}

func positional(pair int) string {
	return "field_" + strconv.Itoa(pair)
}

func renderLine(ts time.Time, level Level, event string, fields map[string]any) string {
	var line strings.Builder
	line.WriteString(ts.UTC().Format(time.RFC3339Nano))
	line.WriteByte(' ')
	line.WriteString(level.String())
	line.WriteByte(' ')
	line.WriteString(event)
	for _, key := range slices.Sorted(maps.Keys(fields)) {
		fmt.Fprintf(&line, " %s=%s", key, renderValue(fields[key]))
	}
	line.WriteByte('\n')
	return line.String()
}

func renderValue(value any) string {
	var text string
	switch v := value.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(v)
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(v)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		text = v.UTC().Format(time.RFC3339Nano)
	case time.Duration:
		text = v.String()
	case error:
		text = v.Error()
	case fmt.Stringer:
		text = v.String()
	case string:
		text = v
	default:
		text = fmt.Sprint(v)
	}
	if needsQuotes(text) {
		return strconv.Quote(text)
	}
	return text
}

func needsQuotes(text string) bool {
	return text == "" || strings.ContainsFunc(text, func(r rune) bool {
		return r <= ' ' || r == '=' || r == '"'
	})
}
