package main

import (
	"github.com/spf13/cobra"

	blog "github.com/goliatone/go-blog"
)

func newBuildCommand(a *app) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Load posts, validate the index and write the derived artifacts",
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := blog.New(a.cfg)
			if err != nil {
				return err
			}
			result, err := module.Build(cmd.Context(), blog.BuildSiteCommand{
				Trigger: blog.TriggerCLI,
				DryRun:  dryRun,
			})
			if err != nil {
				return err
			}

			logger := module.Logger("blog.cli")
			for _, artifact := range result.Artifacts {
				logger.Info("cli.artifact", "path", artifact.Path, "bytes", len(artifact.Content), "checksum", artifact.Checksum)
			}
			for _, skipped := range result.Feed.Skipped {
				logger.Debug("cli.feed.skipped", "slug", skipped.Slug, "reason", skipped.Reason)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "derive every artifact without writing any of them")
	return cmd
}
