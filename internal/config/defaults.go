package config

// DefaultPath is the configuration file read when --config is not given.
const DefaultPath = "quickview.yml"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Port:        8080,
		Environment: EnvDevelopment,
		LogLevel:    "info",
		DataDir:     ".quickview",
		HomeURL:     "http://localhost:8080/",
		Commerce: CommerceConfig{
			Enabled:        true,
			AssetsURL:      "/wp-content/plugins/woocommerce/assets",
			Version:        "8.0.0",
			CurrencySymbol: "$",
			AjaxAddToCart:  true,
		},
		QuickView: QuickViewConfig{
			TriggerDefault: "button",
		},
	}
}
