package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
	"google.golang.org/api/option"
)

// DefaultSourceURL is the retail transactions CSV the dashboard was built around.
const DefaultSourceURL = "https://drive.google.com/uc?id=1a93yVb9nsg6IxqIKBkOTosA2LuMgkLlD"

// EnvPrefix namespaces environment overrides, e.g. DASHBOARD_SOURCE_URL.
const EnvPrefix = "DASHBOARD"

// Config holds the settings shared by the server and the CLI.
type Config struct {
	Address         string        `mapstructure:"address"`
	SourceURL       string        `mapstructure:"source-url"`
	LogLevel        string        `mapstructure:"log-level"`
	FetchTimeout    time.Duration `mapstructure:"fetch-timeout"`
	ReadTimeout     time.Duration `mapstructure:"read-timeout"`
	WriteTimeout    time.Duration `mapstructure:"write-timeout"`
	GCPProject      string        `mapstructure:"gcp-project"`
	CredentialsFile string        `mapstructure:"credentials-file"`
}

// field: default value
var defaults = map[string]interface{}{
	"address":          ":8050",
	"source-url":       DefaultSourceURL,
	"log-level":        "info",
	"fetch-timeout":    "60s",
	"read-timeout":     "15s",
	"write-timeout":    "15s",
	"gcp-project":      "",
	"credentials-file": "",
}

var requiredFields = []string{
	"address",
	"source-url",
}

// Load reads configuration from an optional file and the environment.
// Environment variables take precedence over the file; overrides (typically
// command-line flags the user actually set) take precedence over both.
func Load(path string, overrides map[string]interface{}) (*Config, error) {
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config %s: %w", path, err)
		}
	}

	for key, value := range overrides {
		v.Set(key, value)
	}

	for _, field := range requiredFields {
		if strings.TrimSpace(v.GetString(field)) == "" {
			return nil, fmt.Errorf("missing required config field: %s", field)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	return &cfg, nil
}

// ClientOptions returns the options passed to every GCP client.
func (c *Config) ClientOptions() []option.ClientOption {
	if c.CredentialsFile == "" {
		return nil
	}
	return []option.ClientOption{option.WithCredentialsFile(c.CredentialsFile)}
}
