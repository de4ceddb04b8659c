package config

// Application constants
const (
	// Application Info
	AppName    = "tabclean"
	AppVersion = "1.0.0"

	// Environment
	EnvPrefix  = "TABCLEAN"
	DotEnvFile = ".env"

	// File Paths (relative to the working directory)
	DefaultInputPath  = "prim_ver_24(n tratado).csv"
	DefaultOutputPath = "dataset_tratado_pv24.csv"
	DefaultLogFile    = "logs/tabclean.log"

	// Log Settings
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	// Output
	PreviewRows = 5
)
