package config

import (
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port int
		Host string
	}
	Database struct {
		Driver string
		DSN    string
	}
	Services struct {
		Name string
	}
	Auth struct {
		JWTSecret       string
		TokenExpiration int
	}
}

func LoadConfig() (*Config, error) {
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("database.driver", "memory")
	viper.SetDefault("database.dsn", "turbo.db")
	viper.SetDefault("services.name", "memory")
	viper.SetDefault("auth.tokenexpiration", 24)

	viper.AutomaticEnv()
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %v", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %v", err)
	}

	return &config, nil
}
