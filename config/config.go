package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Address  string `mapstructure:"address"`
		HTTPPort string `mapstructure:"http_port"`
	} `mapstructure:"server"`

	Logging struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
		File   string `mapstructure:"file"`
	} `mapstructure:"logging"`

	Storage struct {
		// "redis" | "mysql" | "postgres" | "" (in-memory)
		Driver string `mapstructure:"driver"`
		DSN    string `mapstructure:"dsn"`
		Redis  struct {
			Addr     string `mapstructure:"addr"`
			Password string `mapstructure:"password"`
			DB       int    `mapstructure:"db"`
		} `mapstructure:"redis"`
	} `mapstructure:"storage"`

	Retention struct {
		// Секунды без новых показаний, после которых серия протухает.
		WindowSeconds int `mapstructure:"window_seconds"`
	} `mapstructure:"retention"`

	CORS struct {
		AllowedOrigins []string `mapstructure:"allowed_origins"`
	} `mapstructure:"cors"`
}

func (c *Config) RetentionWindow() time.Duration {
	if c.Retention.WindowSeconds <= 0 {
		return time.Hour
	}
	return time.Duration(c.Retention.WindowSeconds) * time.Second
}

// Load читает config.yaml (путь можно переопределить) и env THERMO_*.
// Отсутствие файла не ошибка — работаем на дефолтах.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/thermo")
	}

	v.SetDefault("server.address", "0.0.0.0")
	v.SetDefault("server.http_port", "8000")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
	v.SetDefault("storage.driver", "")
	v.SetDefault("storage.redis.addr", "localhost:6379")
	v.SetDefault("storage.redis.db", 0)
	v.SetDefault("retention.window_seconds", 3600)
	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetEnvPrefix("THERMO")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	return &cfg, nil
}
