// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and environment variables over the defaults.
// - Validation failures wrap ErrInvalidConfig.
package config

// Catalog check modes.
const (
	CatalogCheckStrict = "strict"
	CatalogCheckWarn   = "warn"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// ModelPath, ScalerPath and ManifestPath locate the fitted artifacts.
	ModelPath    string `koanf:"model_path"`
	ScalerPath   string `koanf:"scaler_path"`
	ManifestPath string `koanf:"manifest_path"`

	// CurrencyPrefix is prepended to formatted predictions.
	CurrencyPrefix string `koanf:"currency_prefix"`

	// CatalogCheck decides whether catalog/manifest drift stops startup
	// (strict) or is only logged (warn).
	CatalogCheck string `koanf:"catalog_check"`

	// Categories overrides the category values offered per field.
	Categories map[string][]string `koanf:"categories"`
}

// New creates a Config with defaults. Artifacts are expected next to the
// process.
func New() *Config {
	return &Config{
		LogLevel:       "info",
		LogFormat:      "text",
		Addr:           ":9080",
		ModelPath:      "model_gaji.json",
		ScalerPath:     "scaler.json",
		ManifestPath:   "features_columns.json",
		CurrencyPrefix: "Rp",
		CatalogCheck:   CatalogCheckStrict,
	}
}
