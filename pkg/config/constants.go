package config

const (
	// EnvPrefix is passed to envconfig; individual fields spell the full
	// MALL_ variable names so the prefix stays a namespace guard only.
	EnvPrefix = "MALL"

	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)
