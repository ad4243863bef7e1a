package buildcmd

import (
	"context"
	"errors"

	command "github.com/goliatone/go-command"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-blog/internal/commands"
	"github.com/goliatone/go-blog/internal/generator"
	"github.com/goliatone/go-blog/internal/logging"
	"github.com/goliatone/go-blog/pkg/interfaces"
)

const (
	buildOperation = "site.build"

	contentIndexInvalidCode = "BLOG_CONTENT_INDEX_INVALID"
	contentLoadFailedCode   = "BLOG_CONTENT_LOAD_FAILED"
)

var _ command.Commander[BuildSiteCommand] = (*BuildSiteHandler)(nil)

// BuiltFunc receives every successful build result.
type BuiltFunc func(result *generator.BuildResult)

// BuildSiteHandler runs the generator through the shared command handler.
type BuildSiteHandler struct {
	inner *commands.Handler[BuildSiteCommand]
}

// NewBuildSiteHandler creates a handler bound to the supplied generator.
// onBuilt may be nil.
func NewBuildSiteHandler(service generator.Service, logger interfaces.Logger, onBuilt BuiltFunc, opts ...commands.HandlerOption[BuildSiteCommand]) *BuildSiteHandler {
	baseLogger := logging.OrNoOp(logger)

	exec := func(ctx context.Context, msg BuildSiteCommand) error {
		result, err := service.Build(ctx, generator.BuildOptions{DryRun: msg.DryRun})
		if err != nil {
			return categorise(err)
		}
		logging.WithFields(baseLogger, map[string]any{
			"records":     len(result.Records),
			"feed_items":  len(result.Feed.Items),
			"load_errors": len(result.LoadErrors),
			"artifacts":   len(result.Artifacts),
			"dry_run":     result.DryRun,
		}).Info("site.command.build.completed")
		if onBuilt != nil {
			onBuilt(result)
		}
		return nil
	}

	handlerOpts := []commands.HandlerOption[BuildSiteCommand]{
		commands.WithLogger[BuildSiteCommand](baseLogger),
		commands.WithOperation[BuildSiteCommand](buildOperation),
		commands.WithMessageFields(func(msg BuildSiteCommand) map[string]any {
			fields := map[string]any{
				"trigger": triggerOrDefault(msg.Trigger),
			}
			if len(msg.Changed) > 0 {
				fields["changed_count"] = len(msg.Changed)
			}
			if msg.DryRun {
				fields["dry_run"] = true
			}
			return fields
		}),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &BuildSiteHandler{
		inner: commands.NewHandler(exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[BuildSiteCommand].
func (h *BuildSiteHandler) Execute(ctx context.Context, msg BuildSiteCommand) error {
	return h.inner.Execute(ctx, msg)
}

// categorise tags content problems as validation failures so callers can
// tell broken posts apart from infrastructure errors.
func categorise(err error) error {
	switch {
	case errors.Is(err, generator.ErrIndexInvalid):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content index invalid").
			WithTextCode(contentIndexInvalidCode)
	case errors.Is(err, generator.ErrLoadFailed):
		return goerrors.Wrap(err, goerrors.CategoryValidation, "content failed to load").
			WithTextCode(contentLoadFailedCode)
	default:
		return err
	}
}

func triggerOrDefault(trigger string) string {
	if trigger == "" {
		return TriggerCLI
	}
	return trigger
}
