package press

import "github.com/goliatone/go-press/internal/runtimeconfig"

var (
	ErrContentDirRequired           = runtimeconfig.ErrContentDirRequired
	ErrGeneratorOutputDirRequired   = runtimeconfig.ErrGeneratorOutputDirRequired
	ErrGeneratorWorkersInvalid      = runtimeconfig.ErrGeneratorWorkersInvalid
	ErrGeneratorPostsPerFeedInvalid = runtimeconfig.ErrGeneratorPostsPerFeedInvalid
	ErrPreviewOutputDirRequired     = runtimeconfig.ErrPreviewOutputDirRequired
	ErrServerDebounceInvalid        = runtimeconfig.ErrServerDebounceInvalid
	ErrStorageDriverUnknown         = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired           = runtimeconfig.ErrStorageDSNRequired
	ErrLintTitleLengthInvalid       = runtimeconfig.ErrLintTitleLengthInvalid
	ErrLoggingProviderUnknown       = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid          = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid         = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	Features             = runtimeconfig.Features
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	LintConfig           = runtimeconfig.LintConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	ServerConfig         = runtimeconfig.ServerConfig
	StorageConfig        = runtimeconfig.StorageConfig
	CacheConfig          = runtimeconfig.CacheConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}
