package config

const (
	defaultLogDir           = "~/.local/share/stacks/logs"
	defaultLogRetentionDays = 60
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultFolderTokens     = 4
	defaultCatalogTokens    = 3
	defaultDedupeSuffix     = "-deduped"
	defaultPartitionSuffix  = "-by-year"
	defaultAlignmentWarnGap = 10.0
)

// Default returns a Config populated with repository defaults. The catalog
// path and thumbnail root have no defaults; they describe the operator's
// data and must be configured.
func Default() Config {
	return Config{
		Paths: Paths{
			LogDir: defaultLogDir,
		},
		Dedupe: Dedupe{
			FolderTokens:  defaultFolderTokens,
			CatalogTokens: defaultCatalogTokens,
			OutputSuffix:  defaultDedupeSuffix,
		},
		Partition: Partition{
			OutputSuffix: defaultPartitionSuffix,
		},
		Alignment: Alignment{
			WarnGap: defaultAlignmentWarnGap,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultLogRetentionDays,
		},
	}
}
