package config

import (
	"time"

	"github.com/maxviazov/orgs-directory-service/internal/logger"
)

type Config struct {
	App        AppConfig           `mapstructure:"app"`
	Logger     logger.LoggerConfig `mapstructure:"logger"`
	Store      StoreConfig         `mapstructure:"store"`
	Postgres   PostgresConfig      `mapstructure:"postgres"`
	Redis      RedisConfig         `mapstructure:"redis"`
	Pagination PaginationConfig    `mapstructure:"pagination"`
}

type AppConfig struct {
	Name            string        `mapstructure:"name" validate:"required"`
	Version         string        `mapstructure:"version"`
	Env             string        `mapstructure:"env" validate:"oneof=dev test staging prod"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
	CORSOrigins     []string      `mapstructure:"cors_origins"`
}

// StoreConfig selects the document backend.
type StoreConfig struct {
	Driver string          `mapstructure:"driver" validate:"oneof=file postgres redis"`
	File   FileStoreConfig `mapstructure:"file"`
}

type FileStoreConfig struct {
	Path string `mapstructure:"path"`
}

type PostgresConfig struct {
	// URL, when set, wins over the discrete connection fields.
	URL               string `mapstructure:"url"`
	Host              string `mapstructure:"host"`
	Port              int    `mapstructure:"port"`
	User              string `mapstructure:"user"`
	Password          string `mapstructure:"password"`
	DBName            string `mapstructure:"db"`
	SSLMode           string `mapstructure:"sslmode"`
	MaxConns          int32  `mapstructure:"max_conns"`
	MinConns          int32  `mapstructure:"min_conns"`
	MaxConnLifetime   int    `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   int    `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod int    `mapstructure:"health_check_period"`
	// DocumentID names the row holding the aggregate, so several deployments can share a table.
	DocumentID string `mapstructure:"document_id"`
	Migrate    bool   `mapstructure:"migrate"`
}

type RedisConfig struct {
	// InMemory runs an embedded miniredis instead of dialing Addr.
	InMemory     bool          `mapstructure:"in_memory"`
	Addr         string        `mapstructure:"addr"`
	Username     string        `mapstructure:"username"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	Key          string        `mapstructure:"key"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
}

type PaginationConfig struct {
	// StrictPages rejects page numbers past the last page with 400 instead of returning empty data.
	StrictPages bool `mapstructure:"strict_pages"`
}
