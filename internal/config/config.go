package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	S3        S3Config        `mapstructure:"s3"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Generator GeneratorConfig `mapstructure:"generator"`
	Safety    SafetyConfig    `mapstructure:"safety"`
	Seed      SeedConfig      `mapstructure:"seed"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Address     string   `mapstructure:"address"`
	Mode        string   `mapstructure:"mode"` // gin mode: debug, release, test
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// DatabaseConfig selects the store backend.
// Driver is one of "mongo", "postgres" or "sqlite"; URI/Name apply to mongo, DSN to the SQL drivers.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
	DSN    string `mapstructure:"dsn"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether object storage is configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// AuthConfig describes how tokens from the identity provider are verified.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret"`
	Issuer    string `mapstructure:"issuer"`   // optional "iss" check
	Audience  string `mapstructure:"audience"` // optional "aud" check
}

// GeneratorConfig points at an OpenAI-compatible chat completions endpoint.
type GeneratorConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	APIKey     string        `mapstructure:"api_key"`
	Model      string        `mapstructure:"model"`
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// Enabled reports whether workout generation can be offered.
func (c GeneratorConfig) Enabled() bool {
	return c.BaseURL != "" && c.APIKey != ""
}

// SafetyConfig bounds the numbers a generated proposal may contain.
type SafetyConfig struct {
	MinReps        int `mapstructure:"min_reps"`
	MaxReps        int `mapstructure:"max_reps"`
	MinSeconds     int `mapstructure:"min_seconds"`
	MaxSeconds     int `mapstructure:"max_seconds"`
	MaxRestSeconds int `mapstructure:"max_rest_seconds"`
}

type SeedConfig struct {
	OnStartup bool `mapstructure:"on_startup"`
}

type LogConfig struct {
	Mode string `mapstructure:"mode"` // "dev" or "prod"
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, generator.api_key -> GENERATOR_API_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		// No file; defaults and env vars are enough.
		err = nil
	} else if err != nil {
		return
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, config.Validate()
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.cors_origins", []string{"http://localhost:3000", "http://localhost:5173"})
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.uri", "mongodb://localhost:27017")
	v.SetDefault("database.name", "trainer_planner")
	v.SetDefault("database.dsn", "")
	v.SetDefault("s3.region", "us-east-1")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("s3.bucket_name", "")
	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.issuer", "")
	v.SetDefault("auth.audience", "")
	v.SetDefault("generator.base_url", "")
	v.SetDefault("generator.api_key", "")
	v.SetDefault("generator.model", "gpt-4o-mini")
	v.SetDefault("generator.timeout", "60s")
	v.SetDefault("generator.max_retries", 1)
	v.SetDefault("safety.min_reps", 1)
	v.SetDefault("safety.max_reps", 100)
	v.SetDefault("safety.min_seconds", 1)
	v.SetDefault("safety.max_seconds", 3600)
	v.SetDefault("safety.max_rest_seconds", 600)
	v.SetDefault("seed.on_startup", true)
	v.SetDefault("log.mode", "dev")
}

// Validate checks the settings that cannot be defaulted.
func (c Config) Validate() error {
	switch c.Database.Driver {
	case "mongo":
		if c.Database.URI == "" || c.Database.Name == "" {
			return errors.New("database.uri and database.name are required for the mongo driver")
		}
	case "postgres", "sqlite":
		if c.Database.DSN == "" {
			return errors.New("database.dsn is required for the " + c.Database.Driver + " driver")
		}
	default:
		return errors.New("database.driver must be one of mongo, postgres, sqlite")
	}
	if c.Safety.MinReps < 1 || c.Safety.MaxReps < c.Safety.MinReps {
		return errors.New("safety.min_reps/max_reps are inconsistent")
	}
	if c.Safety.MinSeconds < 1 || c.Safety.MaxSeconds < c.Safety.MinSeconds {
		return errors.New("safety.min_seconds/max_seconds are inconsistent")
	}
	if c.Generator.MaxRetries < 0 {
		return errors.New("generator.max_retries cannot be negative")
	}
	return nil
}
