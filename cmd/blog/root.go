package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	blog "github.com/goliatone/go-blog"
)

const envPrefix = "BLOG"

// app carries state shared by every subcommand once configuration is loaded.
type app struct {
	cfgFile string
	cfg     blog.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}
	v := viper.New()

	root := &cobra.Command{
		Use:   "blog",
		Short: "Build the post index, redirects and Atom feed for a Markdown blog",
		Long: `blog reads Markdown posts with YAML front matter, validates them into
an index with a redirect table and derives an Atom feed, a posts manifest
and an optional sitemap from the published posts.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.loadConfig(v)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "config file (default is ./blog.yaml)")
	flags.String("content", "", "directory holding the Markdown posts")
	flags.String("output", "", "directory the artifacts are written to")
	flags.String("base-url", "", "absolute site URL used for feed and sitemap links")
	flags.String("log-level", "", "minimum log level (trace, debug, info, warn, error)")
	_ = v.BindPFlag("content.dir", flags.Lookup("content"))
	_ = v.BindPFlag("generator.output_dir", flags.Lookup("output"))
	_ = v.BindPFlag("site.base_url", flags.Lookup("base-url"))
	_ = v.BindPFlag("logging.level", flags.Lookup("log-level"))

	root.AddCommand(newBuildCommand(a), newServeCommand(a, v))
	return root
}

func (a *app) loadConfig(v *viper.Viper) error {
	setDefaults(v, blog.DefaultConfig())

	if a.cfgFile != "" {
		v.SetConfigFile(a.cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("blog")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || a.cfgFile != "" {
			return fmt.Errorf("read config: %w", err)
		}
	}

	cfg := blog.DefaultConfig()
	if err := v.Unmarshal(&cfg); err != nil {
		return fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// setDefaults registers every key so environment variables resolve even
// without a config file.
func setDefaults(v *viper.Viper, cfg blog.Config) {
	v.SetDefault("site.title", cfg.Site.Title)
	v.SetDefault("site.subtitle", cfg.Site.Subtitle)
	v.SetDefault("site.base_url", cfg.Site.BaseURL)
	v.SetDefault("site.author", cfg.Site.Author)
	v.SetDefault("site.language", cfg.Site.Language)

	v.SetDefault("content.dir", cfg.Content.Dir)
	v.SetDefault("content.pattern", cfg.Content.Pattern)
	v.SetDefault("content.recursive", cfg.Content.Recursive)
	v.SetDefault("content.manifest", cfg.Content.Manifest)
	v.SetDefault("content.reading_list", cfg.Content.ReadingList)

	v.SetDefault("generator.output_dir", cfg.Generator.OutputDir)
	v.SetDefault("generator.generate_sitemap", cfg.Generator.GenerateSitemap)
	v.SetDefault("generator.fail_on_load_errors", cfg.Generator.FailOnLoadErrors)
	v.SetDefault("generator.workers", cfg.Generator.Workers)
	v.SetDefault("generator.feed_max_items", cfg.Generator.FeedMaxItems)

	v.SetDefault("markdown.extensions", cfg.Markdown.Extensions)
	v.SetDefault("markdown.hard_wraps", cfg.Markdown.HardWraps)
	v.SetDefault("markdown.safe_mode", cfg.Markdown.SafeMode)

	v.SetDefault("server.addr", cfg.Server.Addr)
	v.SetDefault("server.watch", cfg.Server.Watch)
	v.SetDefault("server.debounce", cfg.Server.Debounce)

	v.SetDefault("logging.provider", cfg.Logging.Provider)
	v.SetDefault("logging.level", cfg.Logging.Level)
	v.SetDefault("logging.format", cfg.Logging.Format)
	v.SetDefault("logging.add_source", cfg.Logging.AddSource)
	v.SetDefault("logging.focus", cfg.Logging.Focus)
}
