package config

// Environment selects logging format and defaults.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"
)

// Config is the top-level quickview configuration, corresponding to
// quickview.yml.
type Config struct {
	Port         int             `yaml:"port" koanf:"port"`
	Environment  Environment     `yaml:"environment" koanf:"environment"`
	LogLevel     string          `yaml:"log_level" koanf:"log_level"`
	DataDir      string          `yaml:"data_dir" koanf:"data_dir"`
	HomeURL      string          `yaml:"home_url" koanf:"home_url"`
	ThemeDir     string          `yaml:"theme_dir" koanf:"theme_dir"`
	DevTemplates bool            `yaml:"dev_templates" koanf:"dev_templates"`
	CORSAllowAll bool            `yaml:"cors_allow_all" koanf:"cors_allow_all"`
	Commerce     CommerceConfig  `yaml:"commerce" koanf:"commerce"`
	QuickView    QuickViewConfig `yaml:"quick_view" koanf:"quick_view"`
}

// CommerceConfig holds storefront host settings.
type CommerceConfig struct {
	Enabled        bool   `yaml:"enabled" koanf:"enabled"`
	AssetsURL      string `yaml:"assets_url" koanf:"assets_url"`
	Version        string `yaml:"version" koanf:"version"`
	CurrencySymbol string `yaml:"currency_symbol" koanf:"currency_symbol"`
	AjaxAddToCart  bool   `yaml:"ajax_add_to_cart" koanf:"ajax_add_to_cart"`
}

// QuickViewConfig holds quick view extension settings.
type QuickViewConfig struct {
	// TriggerDefault is stored on first start; later changes go through
	// the settings page.
	TriggerDefault string `yaml:"trigger_default" koanf:"trigger_default"`
}
