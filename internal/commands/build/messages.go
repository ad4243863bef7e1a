package buildcmd

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

const buildSiteMessageType = "blog.site.build"

// Build triggers.
const (
	TriggerCLI   = "cli"
	TriggerServe = "serve"
	TriggerWatch = "watch"
)

// BuildSiteCommand runs the content pipeline once and writes the derived
// artifacts.
type BuildSiteCommand struct {
	// Trigger records what started the build. Defaults to TriggerCLI when empty.
	Trigger string `json:"trigger,omitempty"`
	// Changed lists the files that prompted a watch rebuild.
	Changed []string `json:"changed,omitempty"`
	// DryRun derives every artifact without writing any of them.
	DryRun bool `json:"dry_run,omitempty"`
}

// Type implements command.Message.
func (BuildSiteCommand) Type() string { return buildSiteMessageType }

// Validate rejects unknown triggers.
func (cmd BuildSiteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Trigger, validation.In(TriggerCLI, TriggerServe, TriggerWatch).
			Error("blog.site.build.trigger_invalid: trigger must be cli, serve or watch")),
	)
}
