package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Backend BackendConfig `mapstructure:"backend"`
	State   StateConfig   `mapstructure:"state"`
	Chat    ChatConfig    `mapstructure:"chat"`
	CORS    CORSConfig    `mapstructure:"cors"`
	Logging LoggingConfig `mapstructure:"logging"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

type ServerConfig struct {
	Host              string        `mapstructure:"host"`
	Port              int           `mapstructure:"port"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	IdleTimeout       time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
	MiddlewareTimeout time.Duration `mapstructure:"middleware_timeout"`
}

// BackendConfig describes the campus-management API this client talks to.
type BackendConfig struct {
	BaseURL   string        `mapstructure:"base_url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// StateConfig selects where the persisted session record lives.
type StateConfig struct {
	Driver        string         `mapstructure:"driver"`
	Namespace     string         `mapstructure:"namespace"`
	EncryptionKey string         `mapstructure:"encryption_key"`
	AutoMigrate   bool           `mapstructure:"auto_migrate"`
	MigrationsDir string         `mapstructure:"migrations_dir"`
	File          FileConfig     `mapstructure:"file"`
	SQLite        SQLiteConfig   `mapstructure:"sqlite"`
	Postgres      DatabaseConfig `mapstructure:"postgres"`
	MySQL         DatabaseConfig `mapstructure:"mysql"`
	Redis         RedisConfig    `mapstructure:"redis"`
	Mongo         MongoConfig    `mapstructure:"mongo"`
}

type FileConfig struct {
	Dir string `mapstructure:"dir"`
}

type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
	MaxConns int32  `mapstructure:"max_conns"`
	MinConns int32  `mapstructure:"min_conns"`
}

// DSN returns a postgres connection URL.
func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.Database, c.SSLMode,
	)
}

// MySQLDSN returns a go-sql-driver/mysql DSN.
func (c DatabaseConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		c.User, c.Password, c.Host, c.Port, c.Database,
	)
}

type RedisConfig struct {
	Host      string `mapstructure:"host"`
	Port      int    `mapstructure:"port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type MongoConfig struct {
	URI        string        `mapstructure:"uri"`
	Database   string        `mapstructure:"database"`
	Collection string        `mapstructure:"collection"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// ChatConfig holds conversation defaults.
type ChatConfig struct {
	WelcomeMessage string `mapstructure:"welcome_message"`
	MaxInputLength int    `mapstructure:"max_input_length"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LoggingConfig struct {
	Level        string        `mapstructure:"level"`
	Format       string        `mapstructure:"format"`
	File         string        `mapstructure:"file"`
	MaxAge       time.Duration `mapstructure:"max_age"`
	RotationTime time.Duration `mapstructure:"rotation_time"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/config.yaml"
	}

	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, use defaults and env vars
	}

	v.AutomaticEnv()
	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	// Server
	v.SetDefault("server.host", "127.0.0.1")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "0s") // chat events are long-lived
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.middleware_timeout", "60s")

	// Backend
	v.SetDefault("backend.base_url", "http://localhost:8000")
	v.SetDefault("backend.timeout", "30s")
	v.SetDefault("backend.user_agent", "campus-console")

	// State
	v.SetDefault("state.driver", "file")
	v.SetDefault("state.namespace", "auth-storage")
	v.SetDefault("state.auto_migrate", false)
	v.SetDefault("state.migrations_dir", "migrations")
	v.SetDefault("state.file.dir", defaultStateDir())
	v.SetDefault("state.sqlite.path", filepath.Join(defaultStateDir(), "state.db"))
	v.SetDefault("state.postgres.host", "localhost")
	v.SetDefault("state.postgres.port", 5432)
	v.SetDefault("state.postgres.user", "campus")
	v.SetDefault("state.postgres.database", "campus_console")
	v.SetDefault("state.postgres.ssl_mode", "disable")
	v.SetDefault("state.postgres.max_conns", 4)
	v.SetDefault("state.postgres.min_conns", 1)
	v.SetDefault("state.mysql.host", "localhost")
	v.SetDefault("state.mysql.port", 3306)
	v.SetDefault("state.mysql.user", "campus")
	v.SetDefault("state.mysql.database", "campus_console")
	v.SetDefault("state.redis.host", "localhost")
	v.SetDefault("state.redis.port", 6379)
	v.SetDefault("state.redis.db", 0)
	v.SetDefault("state.redis.key_prefix", "campus:state:")
	v.SetDefault("state.mongo.uri", "mongodb://localhost:27017")
	v.SetDefault("state.mongo.database", "campus_console")
	v.SetDefault("state.mongo.collection", "client_state")
	v.SetDefault("state.mongo.timeout", "10s")

	// Chat
	v.SetDefault("chat.welcome_message", "Hello! I'm your AI Campus Administration Assistant. I can help you with student management, analytics insights, administrative tasks, and answer questions about your campus data. How can I assist you today?")
	v.SetDefault("chat.max_input_length", 2000)

	// CORS
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:5173", "http://localhost:8080"})

	// Logging
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.max_age", "168h")
	v.SetDefault("logging.rotation_time", "24h")

	// Metrics
	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

func bindEnvVars(v *viper.Viper) {
	// Backend
	v.BindEnv("backend.base_url", "CAMPUS_API_BASE_URL")

	// State
	v.BindEnv("state.driver", "STATE_DRIVER")
	v.BindEnv("state.encryption_key", "STATE_ENCRYPTION_KEY")
	v.BindEnv("state.postgres.password", "POSTGRES_PASSWORD")
	v.BindEnv("state.mysql.password", "MYSQL_PASSWORD")
	v.BindEnv("state.redis.password", "REDIS_PASSWORD")
	v.BindEnv("state.mongo.uri", "MONGO_URI")

	// Logging
	v.BindEnv("logging.level", "LOG_LEVEL")
	v.BindEnv("logging.format", "LOG_FORMAT")
}

func defaultStateDir() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".campus-console"
	}
	return filepath.Join(dir, "campus-console")
}
