// Package config loads server settings from defaults, an optional
// widgetry.yaml (or .json) file and WIDGETRY_ environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"widgetry.dev/internal/appconf"
	"widgetry.dev/internal/logging"
	"widgetry.dev/internal/tzconv"
)

const (
	ConfigName = "widgetry"
	EnvPrefix  = "WIDGETRY"
)

// Load sets the defaults, binds the environment and reads the config file
// from configDir when one is there. A missing file is not an error; a
// malformed one is.
func Load(configDir string) error {
	viper.SetDefault("port", 4000)
	viper.SetDefault("env", "development")
	viper.SetDefault("apiKeys", []string{"test"})
	viper.SetDefault("rateLimit", 100)
	viper.SetDefault("dbPath", ":memory:")
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("defaultTimeZone", "UTC")
	viper.SetDefault("compression.minSize", 1024)
	viper.SetDefault("compression.level", 6)

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetConfigName(ConfigName)
	if configDir != "" {
		viper.AddConfigPath(configDir)
	}
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("error reading config file: %w", err)
	}
	return nil
}

// App builds the application config from the loaded values and validates
// the ones the server cannot start without.
func App() (appconf.Config, error) {
	cfg := appconf.Config{
		Port:            viper.GetInt("port"),
		Env:             appconf.EnvFlagToEnvironment(viper.GetString("env")),
		ApiKeys:         apiKeys(viper.GetStringSlice("apiKeys")),
		RateLimit:       viper.GetInt("rateLimit"),
		DBPath:          viper.GetString("dbPath"),
		LogLevel:        viper.GetString("logLevel"),
		DefaultTimeZone: viper.GetString("defaultTimeZone"),
		Compression: appconf.Compression{
			MinSize: viper.GetInt("compression.minSize"),
			Level:   viper.GetInt("compression.level"),
		},
	}

	if cfg.Port < 0 || cfg.Port > 65535 {
		return cfg, fmt.Errorf("port %d out of range", cfg.Port)
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return cfg, err
	}
	if _, err := tzconv.ResolveZone(cfg.DefaultTimeZone); err != nil {
		return cfg, fmt.Errorf("invalid default time zone: %w", err)
	}
	if cfg.Compression.Level < 1 || cfg.Compression.Level > 9 {
		return cfg, fmt.Errorf("compression level %d out of range 1-9", cfg.Compression.Level)
	}
	return cfg, nil
}

// apiKeys accepts both list values and a single comma separated string, the
// form the keys take when they come from the environment.
func apiKeys(raw []string) []string {
	var keys []string
	for _, entry := range raw {
		for _, key := range strings.Split(entry, ",") {
			if key = strings.TrimSpace(key); key != "" {
				keys = append(keys, key)
			}
		}
	}
	return keys
}
