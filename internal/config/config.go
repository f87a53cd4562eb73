package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything cmd/api needs to boot.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Mongo    MongoConfig    `yaml:"mongo"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	Auth     AuthConfig     `yaml:"auth"`
	Mail     MailConfig     `yaml:"mail"`
	FollowUp FollowUpConfig `yaml:"followUp"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowedOrigins"`
	Version        string   `yaml:"version"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

type RabbitMQConfig struct {
	URL string `yaml:"url"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwtSecret"`
}

type MailConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
	// AppURL prefixes links to leads in notification emails.
	AppURL string `yaml:"appUrl"`
}

type FollowUpConfig struct {
	Interval time.Duration `yaml:"interval"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

func defaults() Config {
	return Config{
		Server: ServerConfig{
			Port:           8080,
			AllowedOrigins: []string{"http://localhost:3000"},
			Version:        "1.0.0",
		},
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "lynkupro",
		},
		Mail: MailConfig{
			Port:   587,
			From:   "noreply@lynkupro.com",
			AppURL: "http://localhost:3000",
		},
		FollowUp: FollowUpConfig{Interval: time.Minute},
		Log:      LogConfig{Level: "info", Format: "json"},
	}
}

// Load reads an optional YAML file named by LYNKUPRO_CONFIG_PATH and then
// applies environment overrides. The JWT secret is mandatory.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("LYNKUPRO_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}

	if cfg.Auth.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := os.Getenv(k); v != "" {
				*dst = v
				return
			}
		}
	}
	setInt := func(dst *int, key string) error {
		raw := os.Getenv(key)
		if raw == "" {
			return nil
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid %s: %w", key, err)
		}
		*dst = v
		return nil
	}

	if err := setInt(&cfg.Server.Port, "PORT"); err != nil {
		return err
	}
	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		cfg.Server.AllowedOrigins = splitList(origins)
	}

	setString(&cfg.Mongo.URI, "MONGODB_URI", "MONGO_URI")
	setString(&cfg.Mongo.Database, "MONGODB_DATABASE")
	setString(&cfg.RabbitMQ.URL, "RABBITMQ_URL")
	setString(&cfg.Auth.JWTSecret, "JWT_SECRET")

	setString(&cfg.Mail.Host, "MAIL_HOST")
	if err := setInt(&cfg.Mail.Port, "MAIL_PORT"); err != nil {
		return err
	}
	setString(&cfg.Mail.User, "MAIL_USER")
	setString(&cfg.Mail.Password, "MAIL_PASSWORD")
	setString(&cfg.Mail.From, "MAIL_FROM")
	setString(&cfg.Mail.AppURL, "APP_URL")

	if raw := os.Getenv("FOLLOW_UP_INTERVAL"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid FOLLOW_UP_INTERVAL: %w", err)
		}
		cfg.FollowUp.Interval = d
	}

	setString(&cfg.Log.Level, "LOG_LEVEL")
	setString(&cfg.Log.Format, "LOG_FORMAT")
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// NewLogger builds the process logger: JSON unless format is "text".
func (c LogConfig) NewLogger() *slog.Logger {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Level)); err != nil {
		level = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: level}

	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(os.Stdout, opts))
	}
	return slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
