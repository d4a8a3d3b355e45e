package config

import (
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Log      LogConfig
	Engine   EngineConfig
	Export   ExportConfig
	Database DatabaseConfig
	Redis    RedisConfig
}

type LogConfig struct {
	Level  string
	Format string
}

type EngineConfig struct {
	Precision int
}

// ExportConfig lists the extra sinks the final snapshot is written to.
// Stdout is always written.
type ExportConfig struct {
	Sinks []string
}

// Enabled reports whether sink is in the export list.
func (c ExportConfig) Enabled(sink string) bool {
	for _, s := range c.Sinks {
		if s == sink {
			return true
		}
	}
	return false
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

var envBindings = map[string]string{
	"log.level":        "LOG_LEVEL",
	"log.format":       "LOG_FORMAT",
	"engine.precision": "ENGINE_PRECISION",
	"export.sinks":     "EXPORT_SINKS",

	"database.host":     "DATABASE_HOST",
	"database.port":     "DATABASE_PORT",
	"database.user":     "DATABASE_USER",
	"database.password": "DATABASE_PASSWORD",
	"database.name":     "DATABASE_NAME",
	"database.ssl_mode": "DATABASE_SSL_MODE",

	"redis.host":     "REDIS_HOST",
	"redis.port":     "REDIS_PORT",
	"redis.password": "REDIS_PASSWORD",
	"redis.db":       "REDIS_DB",
	"redis.ttl":      "REDIS_TTL",
}

func setDefaults() {
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "console")
	viper.SetDefault("engine.precision", 4)
	viper.SetDefault("export.sinks", "")

	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", "5432")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "password")
	viper.SetDefault("database.name", "payments_engine")
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.max_open_conns", 5)
	viper.SetDefault("database.max_idle_conns", 2)
	viper.SetDefault("database.conn_max_lifetime", time.Minute*5)

	viper.SetDefault("redis.host", "localhost")
	viper.SetDefault("redis.port", "6379")
	viper.SetDefault("redis.password", "")
	viper.SetDefault("redis.db", 0)
	viper.SetDefault("redis.ttl", 24*time.Hour)
}

// Load reads .env (if present) and the environment into a Config.
// Environment variables win over the file.
func Load() *Config {
	viper.SetConfigFile(".env")
	viper.SetConfigType("env")
	viper.AutomaticEnv()
	for key, env := range envBindings {
		viper.BindEnv(key, env)
	}
	setDefaults()

	// A missing .env is fine; defaults and the environment still apply.
	if err := viper.ReadInConfig(); err == nil {
		applyFileValues()
	}
	return fromViper()
}

// applyFileValues maps .env entries (stored by viper as e.g. "log_level")
// onto their dotted keys. They replace the defaults only, so a bound
// environment variable still wins.
func applyFileValues() {
	for key, env := range envBindings {
		fileKey := strings.ToLower(env)
		if viper.InConfig(fileKey) {
			viper.SetDefault(key, viper.Get(fileKey))
		}
	}
}

func fromViper() *Config {
	return &Config{
		Log: LogConfig{
			Level:  viper.GetString("log.level"),
			Format: viper.GetString("log.format"),
		},
		Engine: EngineConfig{
			Precision: viper.GetInt("engine.precision"),
		},
		Export: ExportConfig{
			Sinks: splitList(viper.GetString("export.sinks")),
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("database.host"),
			Port:            viper.GetString("database.port"),
			User:            viper.GetString("database.user"),
			Password:        viper.GetString("database.password"),
			Name:            viper.GetString("database.name"),
			SSLMode:         viper.GetString("database.ssl_mode"),
			MaxOpenConns:    viper.GetInt("database.max_open_conns"),
			MaxIdleConns:    viper.GetInt("database.max_idle_conns"),
			ConnMaxLifetime: viper.GetDuration("database.conn_max_lifetime"),
		},
		Redis: RedisConfig{
			Host:     viper.GetString("redis.host"),
			Port:     viper.GetString("redis.port"),
			Password: viper.GetString("redis.password"),
			DB:       viper.GetInt("redis.db"),
			TTL:      viper.GetDuration("redis.ttl"),
		},
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
