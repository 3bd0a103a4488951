package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "orgs-directory-service")
	v.SetDefault("app.version", "0.1.0")
	v.SetDefault("app.env", "dev")
	v.SetDefault("app.host", "127.0.0.1")
	v.SetDefault("app.port", 3000)
	v.SetDefault("app.shutdown_timeout", 10*time.Second)
	v.SetDefault("app.cors_origins", []string{"*"})

	v.SetDefault("logger.level", "")
	v.SetDefault("logger.env", "")
	v.SetDefault("logger.format", "")

	v.SetDefault("store.driver", "file")
	v.SetDefault("store.file.path", "data/db.json")

	v.SetDefault("postgres.url", "")
	v.SetDefault("postgres.host", "127.0.0.1")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.db", "")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_conns", 4)
	v.SetDefault("postgres.min_conns", 0)
	v.SetDefault("postgres.max_conn_lifetime", 3600)
	v.SetDefault("postgres.max_conn_idle_time", 600)
	v.SetDefault("postgres.health_check_period", 60)
	v.SetDefault("postgres.document_id", "default")
	v.SetDefault("postgres.migrate", true)

	v.SetDefault("redis.in_memory", false)
	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.username", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key", "orgs:document")
	v.SetDefault("redis.dial_timeout", 5*time.Second)
	v.SetDefault("redis.read_timeout", 3*time.Second)
	v.SetDefault("redis.write_timeout", 3*time.Second)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("pagination.strict_pages", false)
}

// Load reads the YAML file at path (optional: an empty path or a missing file means
// defaults only) and applies APP_* environment overrides, e.g. APP_STORE_DRIVER=redis.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.SetEnvPrefix("APP")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks static constraints plus the settings each store driver needs.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c.App); err != nil {
		return fmt.Errorf("app config validation error: %w", err)
	}
	if err := validator.New().Struct(c.Store); err != nil {
		return fmt.Errorf("store config validation error: %w", err)
	}
	switch c.Store.Driver {
	case "file":
		if c.Store.File.Path == "" {
			return errors.New("store.file.path is required for the file driver")
		}
	case "postgres":
		if c.Postgres.URL == "" && (c.Postgres.User == "" || c.Postgres.DBName == "") {
			return errors.New("postgres.url or postgres.user and postgres.db are required for the postgres driver")
		}
	case "redis":
		if !c.Redis.InMemory && c.Redis.Addr == "" {
			return errors.New("redis.addr is required unless redis.in_memory is set")
		}
		if c.Redis.Key == "" {
			return errors.New("redis.key is required for the redis driver")
		}
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", a.Host, a.Port)
}
