package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Mode          string        `mapstructure:"mode"`
	Port          int           `mapstructure:"port"`
	DatabasePath  string        `mapstructure:"database_path"`
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTIssuer     string        `mapstructure:"jwt_issuer"`
	TokenDuration time.Duration `mapstructure:"token_duration"`
}

func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("server")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.SetEnvPrefix("chat")
	v.AutomaticEnv()

	v.SetDefault("mode", "release")
	v.SetDefault("port", 8080)
	v.SetDefault("database_path", "./chat.db")
	v.SetDefault("jwt_secret", "change-me-in-production")
	v.SetDefault("jwt_issuer", "chat-service")
	v.SetDefault("token_duration", "24h")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return &cfg, nil
}
