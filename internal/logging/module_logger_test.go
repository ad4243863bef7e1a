package logging

import (
	"context"
	"testing"

	"github.com/goliatone/go-blog/pkg/interfaces"
)

type recordingLogger struct {
	fields   []map[string]any
	contexts []context.Context
}

func (r *recordingLogger) Trace(string, ...any) {}
func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Warn(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}
func (r *recordingLogger) Fatal(string, ...any) {}

func (r *recordingLogger) WithFields(fields map[string]any) interfaces.Logger {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		copied[k] = v
	}
	r.fields = append(r.fields, copied)
	return r
}

func (r *recordingLogger) WithContext(ctx context.Context) interfaces.Logger {
	r.contexts = append(r.contexts, ctx)
	return r
}

type stubProvider struct {
	requested []string
	logger    interfaces.Logger
}

func (s *stubProvider) GetLogger(name string) interfaces.Logger {
	s.requested = append(s.requested, name)
	return s.logger
}

func TestModuleLoggerFallsBackToNoOp(t *testing.T) {
	logger := ModuleLogger(nil, "blog.test")
	if _, ok := logger.(noopLogger); !ok {
		t.Fatalf("expected noopLogger fallback, got %T", logger)
	}
	logger = logger.WithContext(context.Background())
	logger.Debug("noop")
}

func TestModuleLoggerUsesProviderAndAnnotatesFields(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = FeedLogger(provider)

	if len(provider.requested) != 1 || provider.requested[0] != feedModule {
		t.Fatalf("expected module %s, got %v", feedModule, provider.requested)
	}
	if len(rec.fields) != 1 || rec.fields[0]["module"] != feedModule {
		t.Fatalf("expected module field %s, got %v", feedModule, rec.fields)
	}
}

func TestModuleLoggerDefaultsToRootModule(t *testing.T) {
	rec := &recordingLogger{}
	provider := &stubProvider{logger: rec}

	_ = ModuleLogger(provider, "")

	if len(provider.requested) != 1 || provider.requested[0] != rootModule {
		t.Fatalf("expected default module %s, got %v", rootModule, provider.requested)
	}
}

func TestWithPostContextSkipsEmptyValues(t *testing.T) {
	rec := &recordingLogger{}

	_ = WithPostContext(rec, " hello.md ", "", "load")

	if len(rec.fields) != 1 {
		t.Fatalf("expected a single WithFields call, got %d", len(rec.fields))
	}
	got := rec.fields[0]
	if got[fieldPostFile] != "hello.md" || got[fieldStage] != "load" {
		t.Fatalf("unexpected fields %v", got)
	}
	if _, ok := got[fieldPostSlug]; ok {
		t.Fatalf("expected empty slug to be skipped, got %v", got)
	}
}

func TestContextFieldsMerge(t *testing.T) {
	ctx := ContextWithFields(context.Background(), map[string]any{"build": "1"})
	ctx = ContextWithFields(ctx, map[string]any{"file": "a.md"})

	fields := ContextFields(ctx)
	if fields["build"] != "1" || fields["file"] != "a.md" {
		t.Fatalf("expected merged fields, got %v", fields)
	}
	fields["build"] = "mutated"
	if ContextFields(ctx)["build"] != "1" {
		t.Fatal("expected ContextFields to return a copy")
	}
}
