package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Placeholder values shipped in sample env files. They count as unset.
const (
	PlaceholderURL       = "YOUR_DATABASE_URL"
	PlaceholderAccessKey = "YOUR_ACCESS_KEY"
)

type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Log     LogConfig     `mapstructure:"log"`
	Remote  RemoteConfig  `mapstructure:"remote"`
	AI      AIConfig      `mapstructure:"ai"`
	Storage StorageConfig `mapstructure:"storage"`
}

type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	File       string `mapstructure:"file"`
	Console    bool   `mapstructure:"console"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// RemoteConfig describes the hosted backend. URL is the Postgres connection
// string; AccessKey also signs session tokens.
type RemoteConfig struct {
	URL                      string        `mapstructure:"url"`
	AccessKey                string        `mapstructure:"access_key"`
	RequireEmailConfirmation bool          `mapstructure:"require_email_confirmation"`
	SessionTTL               time.Duration `mapstructure:"session_ttl"`
	ConfirmURL               string        `mapstructure:"confirm_url"`
}

type AIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

type StorageConfig struct {
	Type         string `mapstructure:"type"`
	LocalPath    string `mapstructure:"local_path"`
	SQLitePath   string `mapstructure:"sqlite_path"`
	S3Bucket     string `mapstructure:"s3_bucket"`
	S3Prefix     string `mapstructure:"s3_prefix"`
	S3Region     string `mapstructure:"s3_region"`
	AWSAccessKey string `mapstructure:"aws_access_key_id"`
	AWSSecretKey string `mapstructure:"aws_secret_access_key"`
}

// env binds every key to the variable names operators already use
var env = map[string][]string{
	"server.port":                       {"PORT"},
	"server.allowed_origins":            {"ALLOWED_ORIGINS"},
	"log.level":                         {"LOG_LEVEL"},
	"log.file":                          {"LOG_FILE"},
	"remote.url":                        {"DATABASE_URL"},
	"remote.access_key":                 {"JOURNAL_ACCESS_KEY"},
	"remote.require_email_confirmation": {"REQUIRE_EMAIL_CONFIRMATION"},
	"remote.session_ttl":                {"SESSION_TTL"},
	"remote.confirm_url":                {"CONFIRM_URL"},
	"ai.api_key":                        {"GEMINI_API_KEY"},
	"ai.model":                          {"GEMINI_MODEL"},
	"storage.type":                      {"STORAGE_TYPE"},
	"storage.local_path":                {"STORAGE_LOCAL_PATH"},
	"storage.sqlite_path":               {"STORAGE_SQLITE_PATH"},
	"storage.s3_bucket":                 {"AWS_S3_BUCKET"},
	"storage.s3_prefix":                 {"AWS_S3_PREFIX"},
	"storage.s3_region":                 {"AWS_REGION"},
	"storage.aws_access_key_id":         {"AWS_ACCESS_KEY_ID"},
	"storage.aws_secret_access_key":     {"AWS_SECRET_ACCESS_KEY"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.allowed_origins", "http://localhost:3000,http://localhost:5173")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", true)
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 30)
	v.SetDefault("remote.require_email_confirmation", false)
	v.SetDefault("remote.session_ttl", "168h")
	v.SetDefault("remote.confirm_url", "http://localhost:8080/api/auth/confirm")
	v.SetDefault("ai.model", "gemini-2.5-flash")
	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "./data/journal")
	v.SetDefault("storage.sqlite_path", "./data/journal.db")
	v.SetDefault("storage.s3_region", "us-east-1")
}

// LoadDotEnv loads .env files if present. Missing files are not an error.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		paths = []string{".env", "../../.env"}
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// Load resolves configuration from defaults, an optional YAML file, and the
// environment. An empty configFile searches ./deltajournal.yaml.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	for key, names := range env {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return nil, err
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("deltajournal")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, err
		}
	}

	ttl := v.GetDuration("remote.session_ttl")
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}

	return &Config{
		Server: ServerConfig{
			Port:           v.GetString("server.port"),
			AllowedOrigins: splitList(v.GetString("server.allowed_origins")),
		},
		Log: LogConfig{
			Level:      v.GetString("log.level"),
			File:       v.GetString("log.file"),
			Console:    v.GetBool("log.console"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
			MaxAgeDays: v.GetInt("log.max_age_days"),
		},
		Remote: RemoteConfig{
			URL:                      strings.TrimSpace(v.GetString("remote.url")),
			AccessKey:                strings.TrimSpace(v.GetString("remote.access_key")),
			RequireEmailConfirmation: v.GetBool("remote.require_email_confirmation"),
			SessionTTL:               ttl,
			ConfirmURL:               v.GetString("remote.confirm_url"),
		},
		AI: AIConfig{
			APIKey: v.GetString("ai.api_key"),
			Model:  v.GetString("ai.model"),
		},
		Storage: StorageConfig{
			Type:         v.GetString("storage.type"),
			LocalPath:    v.GetString("storage.local_path"),
			SQLitePath:   v.GetString("storage.sqlite_path"),
			S3Bucket:     v.GetString("storage.s3_bucket"),
			S3Prefix:     v.GetString("storage.s3_prefix"),
			S3Region:     v.GetString("storage.s3_region"),
			AWSAccessKey: v.GetString("storage.aws_access_key_id"),
			AWSSecretKey: v.GetString("storage.aws_secret_access_key"),
		},
	}, nil
}

// Configured reports whether both remote credentials are present and not placeholders
func (r RemoteConfig) Configured() bool {
	return r.URL != "" && r.AccessKey != "" &&
		r.URL != PlaceholderURL && r.AccessKey != PlaceholderAccessKey
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
