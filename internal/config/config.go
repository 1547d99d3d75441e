package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Configuration holds everything the reconciler needs that is not a report
// input: where the persisted stores live and how to log.
type Configuration struct {
	Stores  StoreConfig   `mapstructure:"stores" validate:"required"`
	Logging LoggingConfig `mapstructure:"logging" validate:"required"`
}

// StoreConfig locates the persisted mapping and exception state.
type StoreConfig struct {
	MappingPath   string `mapstructure:"mapping_path" validate:"required"`
	ExceptionPath string `mapstructure:"exception_path" validate:"required"`
}

type LoggingConfig struct {
	Level string `mapstructure:"level" validate:"required"`
}

// NewConfig loads configuration from config.yaml (searched in ., ./config and
// /etc/o365-reconciler) with O365RECON_-prefixed environment overrides.
func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/o365-reconciler")

	v.SetEnvPrefix("O365RECON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("stores.mapping_path", "mapping.json")
	v.SetDefault("stores.exception_path", "exceptions.json")
	v.SetDefault("logging.level", "info")

	if err := v.ReadInConfig(); err != nil {
		// A missing config file is fine, the defaults stand.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	}

	var cfg Configuration
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration struct tags.
func (c *Configuration) Validate() error {
	return validator.New().Struct(c)
}
