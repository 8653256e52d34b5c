// Package config wraps viper with the comparenet defaults, an optional YAML
// file, .env loading and COMPARENET_ environment overrides.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, so server.port is
// read from COMPARENET_SERVER_PORT.
const EnvPrefix = "COMPARENET"

// Storage drivers accepted by storage.driver.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// defaults are applied before the config file and environment.
var defaults = map[string]any{
	"server.host":          "0.0.0.0",
	"server.port":          8080,
	"server.read_timeout":  "15s",
	"server.write_timeout": "15s",

	"storage.driver":            DriverSQLite,
	"storage.path":              "comparenet.db",
	"storage.dsn":               "",
	"storage.session_ttl":       "720h",
	"storage.purge_interval":    "1h",
	"storage.postgres.host":     "localhost",
	"storage.postgres.port":     5432,
	"storage.postgres.user":     "comparenet",
	"storage.postgres.password": "",
	"storage.postgres.db":       "comparenet",
	"storage.postgres.sslmode":  "disable",

	"catalog.page_size": 6,

	"compare.cookie_name": "comparenet_session",
	"compare.storage_key": "comparePlans",

	"leads.submit_delay":    "1s",
	"leads.dismiss_after":   "2s",
	"leads.rate_per_minute": 30,
	"leads.rate_burst":      5,

	"log.level": "info",
}

// Config is a read-only view over a viper instance. The zero value and a
// Config built from a nil viper are both usable and return zero values.
type Config struct {
	v *viper.Viper
}

// New wraps v. A nil v behaves like an empty configuration.
func New(v *viper.Viper) *Config {
	if v == nil {
		v = viper.New()
	}
	return &Config{v: v}
}

// Load builds the application configuration. Values are resolved in order of
// increasing precedence: defaults, the YAML file at path (skipped when path
// is empty), then COMPARENET_* environment variables. envFiles are loaded
// into the process environment first without overriding variables that are
// already set; when none are given ".env" is tried. Missing env files are
// ignored.
func Load(path string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	v := viper.New()
	SetDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := New(v)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// SetDefaults registers the comparenet defaults on v.
func SetDefaults(v *viper.Viper) {
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
}

// Validate checks values that would otherwise fail later at startup.
func (c *Config) Validate() error {
	switch d := c.GetString("storage.driver"); d {
	case DriverSQLite, DriverPostgres, DriverMemory:
	default:
		return fmt.Errorf("storage.driver %q: want %s, %s or %s", d, DriverSQLite, DriverPostgres, DriverMemory)
	}
	if c.GetInt("catalog.page_size") < 1 {
		return fmt.Errorf("catalog.page_size must be at least 1")
	}
	if c.GetString("compare.storage_key") == "" {
		return fmt.Errorf("compare.storage_key must not be empty")
	}
	return nil
}

func (c *Config) vp() *viper.Viper {
	if c == nil || c.v == nil {
		return viper.New()
	}
	return c.v
}

func (c *Config) GetString(key string) string          { return c.vp().GetString(key) }
func (c *Config) GetInt(key string) int                { return c.vp().GetInt(key) }
func (c *Config) GetBool(key string) bool              { return c.vp().GetBool(key) }
func (c *Config) GetDuration(key string) time.Duration { return c.vp().GetDuration(key) }
func (c *Config) IsSet(key string) bool                { return c.vp().IsSet(key) }

// Sub returns the subtree under key. A missing key yields an empty Config,
// never nil.
func (c *Config) Sub(key string) *Config {
	return New(c.vp().Sub(key))
}

// Unmarshal decodes the whole configuration into target using mapstructure
// tags.
func (c *Config) Unmarshal(target any) error {
	return c.vp().Unmarshal(target)
}

// Addr returns the host:port the HTTP server listens on.
func (c *Config) Addr() string {
	return net.JoinHostPort(c.GetString("server.host"), c.GetString("server.port"))
}

// PostgresDSN returns storage.dsn when set, otherwise a keyword/value DSN
// assembled from the storage.postgres.* keys.
func (c *Config) PostgresDSN() string {
	if dsn := c.GetString("storage.dsn"); dsn != "" {
		return dsn
	}
	return "host=" + c.GetString("storage.postgres.host") +
		" port=" + c.GetString("storage.postgres.port") +
		" user=" + c.GetString("storage.postgres.user") +
		" password=" + c.GetString("storage.postgres.password") +
		" dbname=" + c.GetString("storage.postgres.db") +
		" sslmode=" + c.GetString("storage.postgres.sslmode")
}
