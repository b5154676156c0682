package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	AppPort            int           `mapstructure:"APP_PORT"`
	DatabasePath       string        `mapstructure:"DATABASE_PATH"`
	BackendURL         string        `mapstructure:"BACKEND_URL"`
	RedisAddr          string        `mapstructure:"REDIS_ADDR"`
	LocalStorePath     string        `mapstructure:"LOCAL_STORE_PATH"`
	NotifyPollInterval time.Duration `mapstructure:"NOTIFY_POLL_INTERVAL"`
	CORSOrigins        []string      `mapstructure:"CORS_ORIGINS"`
	LogLevel           string        `mapstructure:"LOG_LEVEL"`
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("APP_PORT", 8000)
	viper.SetDefault("DATABASE_PATH", "/data/simportal.db")
	viper.SetDefault("BACKEND_URL", "http://backend:9000")
	viper.SetDefault("REDIS_ADDR", "") // empty disables the usage rollup cache
	viper.SetDefault("LOCAL_STORE_PATH", "/data/portal-state.json")
	viper.SetDefault("NOTIFY_POLL_INTERVAL", "30s")
	viper.SetDefault("CORS_ORIGINS", []string{"*"})
	viper.SetDefault("LOG_LEVEL", "INFO")

	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}
