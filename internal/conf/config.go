package conf

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config is the immutable configuration built once at startup and
// passed into each component by parameter.
type Config struct {
	Server  ServerConfig
	Log     LogConfig
	Search  SearchConfig
	Fetch   FetchConfig
	GitHub  GitHubConfig `mapstructure:"github"`
	Payment PaymentConfig
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

type SearchConfig struct {
	APIHost string `mapstructure:"api_host"`
	APIKey  string `mapstructure:"api_key"`
}

type FetchConfig struct {
	UserAgent string `mapstructure:"user_agent"`
}

type GitHubConfig struct {
	APIHost     string `mapstructure:"api_host"`
	UserAgent   string `mapstructure:"user_agent"`
	CommitLimit int    `mapstructure:"commit_limit"`
	// TimeoutSeconds of 0 leaves upstream calls without a deadline; a
	// hanging upstream then blocks that request indefinitely. Applies
	// to all three upstream targets.
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

type PaymentConfig struct {
	Enabled        bool             `mapstructure:"enabled"`
	FacilitatorURL string           `mapstructure:"facilitator_url"`
	Network        string           `mapstructure:"network"` // "base" or chain-qualified
	PayTo          string           `mapstructure:"pay_to"`
	Asset          string           `mapstructure:"asset"`
	Credential     CredentialConfig `mapstructure:"credential"`
	Routes         []RouteConfig    `mapstructure:"routes"`
}

type CredentialConfig struct {
	Token     string `mapstructure:"token"`
	KeyName   string `mapstructure:"key_name"`
	KeySecret string `mapstructure:"key_secret"`
}

type RouteConfig struct {
	Path        string `mapstructure:"path"`
	Price       string `mapstructure:"price"`
	Description string `mapstructure:"description"`
}

// LoadConfig reads the config file, with environment overrides for the
// secrets and deployment-specific values.
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.AutomaticEnv()

	viper.SetDefault("server.port", 3000)
	viper.SetDefault("search.api_host", "https://api.search.brave.com")
	viper.SetDefault("github.api_host", "https://api.github.com")
	viper.SetDefault("github.commit_limit", 5)

	_ = viper.BindEnv("server.port", "PORT")
	_ = viper.BindEnv("search.api_key", "SEARCH_API_KEY")
	_ = viper.BindEnv("payment.facilitator_url", "FACILITATOR_URL")
	_ = viper.BindEnv("payment.credential.token", "FACILITATOR_TOKEN")
	_ = viper.BindEnv("payment.credential.key_name", "FACILITATOR_KEY_NAME")
	_ = viper.BindEnv("payment.credential.key_secret", "FACILITATOR_KEY_SECRET")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
