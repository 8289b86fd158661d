package config

// Package config provides a reusable loader for solangc configuration files
// and environment variables. It is versioned so that applications can depend
// on a stable API contract.
//
// Version: v0.1.0

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/solangc/solangc/pkg/utils"
)

// Version is the semantic version of this configuration package.
const Version = "v0.1.0"

// Config represents the unified configuration for the solangc compiler. It
// mirrors the structure of the optional YAML config file plus environment
// overrides, and supplies the defaults used when no config file is present.
type Config struct {
	Target struct {
		Name         string `mapstructure:"name" json:"name"`
		AddressBytes int    `mapstructure:"address_bytes" json:"address_bytes"`
	} `mapstructure:"target" json:"target"`

	Optimizer struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"optimizer" json:"optimizer"`

	Output struct {
		Dir         string   `mapstructure:"dir" json:"dir"`
		IncludeDirs []string `mapstructure:"include_dirs" json:"include_dirs"`
		StandardSON bool     `mapstructure:"standard_json" json:"standard_json"`
	} `mapstructure:"output" json:"output"`

	Logging struct {
		Level string `mapstructure:"level" json:"level"`
	} `mapstructure:"logging" json:"logging"`
}

// AppConfig holds the configuration loaded via Load or LoadFromEnv.
var AppConfig Config

func setDefaults() {
	viper.SetDefault("target.name", "substrate")
	viper.SetDefault("target.address_bytes", 20)
	viper.SetDefault("optimizer.level", "default")
	viper.SetDefault("output.dir", ".")
	viper.SetDefault("output.standard_json", false)
	viper.SetDefault("logging.level", "info")
}

// Load reads an optional configuration file and merges environment variable
// overrides on top of it. The resulting configuration is stored in AppConfig
// and returned. A missing config file is not an error — the defaults above
// apply — but a malformed one is.
//
// The function uses the provided environment name to merge an additional
// config file (e.g. "ci" loads config/ci.yaml over config/default.yaml). If
// env is empty, only the default configuration is loaded.
func Load(env string) (*Config, error) {
	setDefaults()

	viper.SetConfigName("default")
	viper.AddConfigPath("cmd/config")
	viper.AddConfigPath("config")
	viper.SetConfigType("yaml")
	if err := viper.ReadInConfig(); err != nil {
		if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
			return nil, utils.Wrap(err, "load config")
		}
	}

	if env != "" {
		viper.SetConfigName(env)
		if err := viper.MergeInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return nil, utils.Wrap(err, fmt.Sprintf("merge %s config", env))
			}
		}
	}

	viper.SetEnvPrefix("SOLANGC")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv() // picks up SOLANGC_TARGET_NAME, SOLANGC_LOGGING_LEVEL, ... from .env

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, utils.Wrap(err, "unmarshal config")
	}
	return &AppConfig, nil
}

// LoadFromEnv loads configuration using the SOLANGC_ENV environment variable.
func LoadFromEnv() (*Config, error) {
	return Load(utils.EnvOrDefault("SOLANGC_ENV", ""))
}
