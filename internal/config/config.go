// Package config loads service configuration from environment variables
// and an optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the settings of the analysis service.
type Config struct {
	// EmbeddingModel is the Gemini model used for description embeddings.
	EmbeddingModel string `mapstructure:"embedding_model"`

	// Port is the HTTP API listen port.
	Port int `mapstructure:"port"`

	// MaxUploadBytes caps accepted statement uploads.
	MaxUploadBytes int `mapstructure:"max_upload_bytes"`

	// Verbose enables debug logging.
	Verbose bool `mapstructure:"verbose"`
}

// Load reads configuration with defaults, an optional config file and a
// FINSIGHT_ environment prefix.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("embedding_model", "gemini-embedding-001")
	v.SetDefault("port", 8000)
	v.SetDefault("max_upload_bytes", 20<<20)
	v.SetDefault("verbose", false)

	v.SetEnvPrefix("FINSIGHT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config: unmarshal: %w", err)
	}
	return &cfg, nil
}
