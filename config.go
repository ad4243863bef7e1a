package blog

import "github.com/goliatone/go-blog/internal/runtimeconfig"

var (
	ErrContentDirRequired     = runtimeconfig.ErrContentDirRequired
	ErrOutputDirRequired      = runtimeconfig.ErrOutputDirRequired
	ErrBaseURLInvalid         = runtimeconfig.ErrBaseURLInvalid
	ErrWorkersInvalid         = runtimeconfig.ErrWorkersInvalid
	ErrFeedMaxItemsInvalid    = runtimeconfig.ErrFeedMaxItemsInvalid
	ErrServerAddrRequired     = runtimeconfig.ErrServerAddrRequired
	ErrDebounceInvalid        = runtimeconfig.ErrDebounceInvalid
	ErrLoggingProviderUnknown = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid    = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid   = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config          = runtimeconfig.Config
	SiteConfig      = runtimeconfig.SiteConfig
	ContentConfig   = runtimeconfig.ContentConfig
	GeneratorConfig = runtimeconfig.GeneratorConfig
	MarkdownConfig  = runtimeconfig.MarkdownConfig
	ServerConfig    = runtimeconfig.ServerConfig
	LoggingConfig   = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
