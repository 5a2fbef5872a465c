package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server      ServerConfig      `mapstructure:"server"`
	Logging     LoggingConfig     `mapstructure:"logging"`
	Occurrences OccurrencesConfig `mapstructure:"occurrences"`
}

type ServerConfig struct {
	Port    int           `mapstructure:"port"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

// OccurrencesConfig bounds occurrence queries: how many occurrences a
// request gets by default and the most it may ask for.
type OccurrencesConfig struct {
	DefaultCount int `mapstructure:"default_count"`
	MaxCount     int `mapstructure:"max_count"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.timeout", "30s")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.file_path", "")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("occurrences.default_count", 3)
	v.SetDefault("occurrences.max_count", 60)
}

// Load reads config.yaml from the working directory or ./config,
// layered under environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	return load(v, false)
}

// LoadWithPath reads an explicit config file; a missing file is an
// error here, unlike Load.
func LoadWithPath(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v, true)
}

func load(v *viper.Viper, mustExist bool) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		_, notFound := err.(viper.ConfigFileNotFoundError)
		if mustExist || !notFound {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if config.Occurrences.DefaultCount < 1 || config.Occurrences.MaxCount < config.Occurrences.DefaultCount {
		return nil, fmt.Errorf("invalid occurrences config: default_count=%d max_count=%d",
			config.Occurrences.DefaultCount, config.Occurrences.MaxCount)
	}
	return config, nil
}
