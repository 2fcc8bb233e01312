package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config holds everything the agent needs at startup.
type Config struct {
	// Required credentials. The process refuses to enter interactive mode
	// without both.
	GoogleAIKey string
	KMAAPIKey   string

	Model       string
	DBPath      string
	HTTPTimeout time.Duration
}

// Load reads configuration from an optional config file and environment
// variables, applies defaults, and validates required credentials.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envMappings := map[string]string{
		"GoogleAIKey": "GOOGLE_AI_KEY",
		"KMAAPIKey":   "KMA_API_KEY",
		"Model":       "NALSSI_MODEL",
		"DBPath":      "NALSSI_DB_PATH",
		"HTTPTimeout": "NALSSI_HTTP_TIMEOUT",
	}

	for configKey, envVar := range envMappings {
		if err := v.BindEnv(configKey, envVar); err != nil {
			log.Warn().Err(err).Msgf("Failed to bind environment variable %s for %s", envVar, configKey)
		}
	}

	v.SetConfigName("nalssi_config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("$HOME/.nalssi")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		log.Debug().Msg("Config file not found, using environment variables and defaults")
	} else {
		log.Info().Msgf("Using config file: %s", v.ConfigFileUsed())
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	return &config, nil
}

// ValidateCredentials checks the required external credentials. The chat
// session refuses to start without both; commands that only touch the local
// database skip this check.
func (c *Config) ValidateCredentials() error {
	var missingVars []string

	if c.GoogleAIKey == "" {
		missingVars = append(missingVars, "GOOGLE_AI_KEY")
	}

	if c.KMAAPIKey == "" {
		missingVars = append(missingVars, "KMA_API_KEY")
	}

	if len(missingVars) > 0 {
		return fmt.Errorf("missing required environment variables: %s", strings.Join(missingVars, ", "))
	}

	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("Model", "gemini-2.0-flash")
	v.SetDefault("DBPath", "users.db")
	v.SetDefault("HTTPTimeout", 15*time.Second)
}
