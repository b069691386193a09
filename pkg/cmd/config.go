package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// Config is the subset of application configuration loaded from file or
// environment, layered on top of the flags root.go binds directly.
type Config struct {
	Registry RegistryConfig `mapstructure:"registry"`
}

// RegistryConfig controls the demo registry's duplicate-registration
// policy.
type RegistryConfig struct {
	AllowOverrides   bool `mapstructure:"allow_overrides"`
	WarnOnDuplicates bool `mapstructure:"warn_on_duplicates"`
}

// initConfig initializes the configuration by reading from the specified config file.
// It takes arg, whose ConfigPath is the path to the configuration file (none is read when it is empty).
// It returns a pointer to a config struct and an error.
// It returns an error if the configuration file cannot be read or if the configuration cannot be unmarshaled.
func initConfig(arg *args) (*Config, error) {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())

	if arg.ConfigPath != "" {
		v.SetConfigFile(arg.ConfigPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	cfg := Config{Registry: RegistryConfig{WarnOnDuplicates: true}}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	slog.Debug("Config loaded", slog.Any("config", cfg))

	return &cfg, nil
}
