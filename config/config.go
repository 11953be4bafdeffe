package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string
		Mode string // gin mode: debug, release or test
	}
	Database struct {
		// Driver is "sqlite" or "postgres".
		Driver string
		// DSN is "memory", a sqlite file path, or a postgres DSN.
		DSN          string
		LogLevel     string `mapstructure:"log_level"`
		MaxOpenConns int    `mapstructure:"max_open_conns"`
	}
	Site struct {
		Title       string
		Description string
	}
	Home struct {
		FeaturedLimit int `mapstructure:"featured_limit"`
		RecentLimit   int `mapstructure:"recent_limit"`
	}
}

var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from an optional .env file, config.yaml and BLOG_* environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("INFO: [Config] No .env file loaded (%v). Using system environment variables.", err)
	} else {
		log.Println("INFO: [Config] .env file loaded.")
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(".")
	v.AddConfigPath("../config") // For running from locations like tests

	SetDefaults(v)

	v.SetEnvPrefix("BLOG")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			log.Println("WARN: [Config] Configuration file (config.yaml) not found. Using environment variables and defaults.")
		} else {
			return nil, fmt.Errorf("error reading configuration file: %w", err)
		}
	}

	return fromViper(v)
}

// SetDefaults registers every known key so AutomaticEnv can override keys missing from the file.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.dsn", "memory")
	v.SetDefault("database.log_level", "warn")
	v.SetDefault("database.max_open_conns", 0)
	v.SetDefault("site.title", "个人博客")
	v.SetDefault("site.description", "分享技术和生活的个人空间")
	v.SetDefault("home.featured_limit", 3)
	v.SetDefault("home.recent_limit", 6)
}

func fromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if cfg.Server.Port == "" {
		log.Println("WARN: [Config] Server port not configured, using default 8080.")
		cfg.Server.Port = "8080"
	}
	switch cfg.Server.Mode {
	case "debug", "release", "test":
	default:
		return nil, fmt.Errorf("unsupported server mode %q", cfg.Server.Mode)
	}
	cfg.Database.Driver = strings.ToLower(strings.TrimSpace(cfg.Database.Driver))
	switch cfg.Database.Driver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
	log.Printf("INFO: [Config] Configuration loaded: port=%s mode=%s driver=%s", cfg.Server.Port, cfg.Server.Mode, cfg.Database.Driver)
	return &cfg, nil
}
