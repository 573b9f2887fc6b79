package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	ErrUnknownSource  = errors.New("unknown data source")
	ErrMissingSetting = errors.New("missing required setting")
)

// Data source kinds.
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceHTTP     = "http"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env      string `mapstructure:"env"`       // current application environment (local, production)
	HTTPAddr string `mapstructure:"http_addr"` // listen address of the web binary
	Data     Data   `mapstructure:"data"`      // question bank source
}

// Data describes where the question partitions and the syllabus come from.
type Data struct {
	Source          string        `mapstructure:"source"`
	Dir             string        `mapstructure:"dir"`
	BaseURL         string        `mapstructure:"base_url"`
	S3              S3            `mapstructure:"s3"`
	Postgres        Postgres      `mapstructure:"postgres"`
	QuestionFiles   int           `mapstructure:"question_files"`   // partitions are numbered 1..QuestionFiles
	QuestionPattern string        `mapstructure:"question_pattern"` // fmt pattern taking the partition number
	SyllabusFile    string        `mapstructure:"syllabus_file"`
	DeriveTypes     bool          `mapstructure:"derive_types"` // fill missing Type from the year label
	Timeout         time.Duration `mapstructure:"timeout"`      // per-file read timeout
}

// S3 contains bucket settings. Credentials come from the environment only.
type S3 struct {
	Bucket    string `mapstructure:"bucket"`
	Prefix    string `mapstructure:"prefix"`
	Region    string `mapstructure:"region"`
	AccessKey string `mapstructure:"-"`
	SecretKey string `mapstructure:"-"`
}

// Postgres contains database-related configuration parameters.
type Postgres struct {
	URL             string        `mapstructure:"-"`                 // connection string loaded from environment
	Table           string        `mapstructure:"table"`             // table of (name, content) rows
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("aws_access_key_id", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("aws_secret_access_key", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.Data.Postgres.URL = v.GetString("database_url")
	cfg.Data.S3.AccessKey = v.GetString("aws_access_key_id")
	cfg.Data.S3.SecretKey = v.GetString("aws_secret_access_key")
	cfg.Data.Source = strings.ToLower(strings.TrimSpace(cfg.Data.Source))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", "local")
	v.SetDefault("http_addr", ":8080")
	v.SetDefault("data.source", SourceEmbedded)
	v.SetDefault("data.dir", "")
	v.SetDefault("data.base_url", "")
	v.SetDefault("data.s3.bucket", "")
	v.SetDefault("data.s3.prefix", "")
	v.SetDefault("data.s3.region", "us-east-1")
	v.SetDefault("data.postgres.table", "bank_files")
	v.SetDefault("data.postgres.max_connections", 5)
	v.SetDefault("data.postgres.max_conn_lifetime", "30m")
	v.SetDefault("data.question_files", 10)
	v.SetDefault("data.question_pattern", "question_%d.json")
	v.SetDefault("data.syllabus_file", "syllabus.json")
	v.SetDefault("data.derive_types", false)
	v.SetDefault("data.timeout", "10s")
}

// Validate checks that the chosen data source has everything it needs.
func (c *Config) Validate() error {
	d := c.Data
	switch d.Source {
	case SourceEmbedded:
	case SourceDir:
		if d.Dir == "" {
			return fmt.Errorf("%w: data.dir", ErrMissingSetting)
		}
	case SourceHTTP:
		if d.BaseURL == "" {
			return fmt.Errorf("%w: data.base_url", ErrMissingSetting)
		}
	case SourceS3:
		if d.S3.Bucket == "" {
			return fmt.Errorf("%w: data.s3.bucket", ErrMissingSetting)
		}
	case SourcePostgres:
		if d.Postgres.URL == "" {
			return fmt.Errorf("%w: DATABASE_URL", ErrMissingSetting)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, d.Source)
	}

	if d.QuestionFiles < 0 {
		return fmt.Errorf("data.question_files must not be negative, got %d", d.QuestionFiles)
	}
	if !strings.Contains(d.QuestionPattern, "%d") {
		return fmt.Errorf("data.question_pattern %q has no %%d verb", d.QuestionPattern)
	}
	return nil
}
