package config

const (
	delimiter = "."

	KeyContainer    = "container"
	KeyOutputSuffix = "output_suffix"
	KeyContainers   = "containers"

	KeyLoggingPrefix = "logging"
	KeyLoggingLevel  = KeyLoggingPrefix + delimiter + "level"
	KeyLoggingFormat = KeyLoggingPrefix + delimiter + "format"
)

// Environment variables that override the file.
const (
	EnvContainer    = "MEMOGEN_CONTAINER"
	EnvOutputSuffix = "MEMOGEN_OUTPUT_SUFFIX"
	EnvLogLevel     = "MEMOGEN_LOG_LEVEL"
	EnvLogFormat    = "MEMOGEN_LOG_FORMAT"
)
