package config

import (
	"errors"
	"fmt"
	"hiroonarita/practice-planner/internal/domain"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the server and the planctl client.
// The values are read by Viper from a config file or environment variables.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	S3       S3Config       `mapstructure:"s3"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Store    StoreConfig    `mapstructure:"store"`
	Autosave AutosaveConfig `mapstructure:"autosave"`
	Log      LogConfig      `mapstructure:"log"`
	Teams    []domain.Team  `mapstructure:"teams"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}

// DatabaseConfig selects the plan store. Driver "memory" keeps everything in
// process and needs no URI.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver"`
	URI    string `mapstructure:"uri"`
	Name   string `mapstructure:"name"`
}

type S3Config struct {
	Endpoint        string `mapstructure:"endpoint"`
	Region          string `mapstructure:"region"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	SecretAccessKey string `mapstructure:"secret_access_key"`
	BucketName      string `mapstructure:"bucket_name"`
	UseSSL          bool   `mapstructure:"use_ssl"`
}

// Enabled reports whether voice clip storage is configured.
func (c S3Config) Enabled() bool {
	return c.BucketName != ""
}

// JWTConfig signs and verifies store access keys.
type JWTConfig struct {
	Secret     string        `mapstructure:"secret"`
	Expiration time.Duration `mapstructure:"expiration"`
}

// StoreConfig is how planctl reaches the remote store.
type StoreConfig struct {
	URL       string        `mapstructure:"url"`
	AccessKey string        `mapstructure:"access_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// AutosaveConfig tunes the editor's debounced autosave.
type AutosaveConfig struct {
	Delay        time.Duration `mapstructure:"delay"`
	SavedDisplay time.Duration `mapstructure:"saved_display"`
}

// LogConfig enables a rotating log file next to stdout output.
type LogConfig struct {
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// ConfigurationError reports a required setting that is missing. It is fatal
// at process start, never something to recover from at runtime.
type ConfigurationError struct {
	Key string
}

func (e *ConfigurationError) Error() string {
	env := strings.ToUpper(strings.ReplaceAll(e.Key, ".", "_"))
	return fmt.Sprintf("missing required configuration %q (env %s)", e.Key, env)
}

// IsConfigurationError reports whether err is, or wraps, a ConfigurationError.
func IsConfigurationError(err error) bool {
	var cfgErr *ConfigurationError
	return errors.As(err, &cfgErr)
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// server.address -> SERVER_ADDRESS, store.access_key -> STORE_ACCESS_KEY
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(`.`, `_`))

	setDefaults(v)

	err = v.ReadInConfig()
	if _, ok := err.(viper.ConfigFileNotFoundError); ok {
		err = nil // Env vars and defaults are enough
	} else if err != nil {
		return
	}

	// AutomaticEnv only applies to keys viper already knows about.
	for _, key := range []string{"database.uri", "s3.endpoint", "s3.region", "s3.access_key_id",
		"s3.secret_access_key", "s3.bucket_name", "jwt.secret", "store.url", "store.access_key", "log.file"} {
		_ = v.BindEnv(key)
	}

	err = v.Unmarshal(&config)
	if err != nil {
		return
	}
	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8080")
	v.SetDefault("database.driver", "mongo")
	v.SetDefault("database.name", "practice_planner")
	v.SetDefault("s3.use_ssl", true)
	v.SetDefault("jwt.expiration", "720h")
	v.SetDefault("store.timeout", "10s")
	v.SetDefault("autosave.delay", "1500ms")
	v.SetDefault("autosave.saved_display", "2s")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
	v.SetDefault("teams", []map[string]string{{"id": "team-1", "name": "Sample FC"}})
}

// ValidateServer checks the settings the HTTP server cannot start without.
func (c Config) ValidateServer() error {
	if c.JWT.Secret == "" {
		return &ConfigurationError{Key: "jwt.secret"}
	}
	switch c.Database.Driver {
	case "memory":
	case "mongo":
		if c.Database.URI == "" {
			return &ConfigurationError{Key: "database.uri"}
		}
	default:
		return fmt.Errorf("unknown database driver %q", c.Database.Driver)
	}
	return nil
}

// ValidateClient checks the two settings every store client needs.
func (c Config) ValidateClient() error {
	if c.Store.URL == "" {
		return &ConfigurationError{Key: "store.url"}
	}
	if c.Store.AccessKey == "" {
		return &ConfigurationError{Key: "store.access_key"}
	}
	return nil
}

// FindTeam returns the configured team with the given id.
func (c Config) FindTeam(id string) (domain.Team, bool) {
	for _, t := range c.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return domain.Team{}, false
}
