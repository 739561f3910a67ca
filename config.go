package userstore

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// envPrefix is stripped from environment variables when loading
// configuration, e.g. USERSTORE_HOST becomes the "host" key.
const envPrefix = "USERSTORE_"

// Config holds the database connection settings.
//
// ConnString, when set, is passed to the driver verbatim and wins over
// the individual fields. For SQLite it doubles as the database path
// (":memory:" when empty).
type Config struct {
	Driver     string `koanf:"driver"`
	Host       string `koanf:"host"`
	Port       string `koanf:"port"`
	User       string `koanf:"user"`
	Password   string `koanf:"password"`
	DBName     string `koanf:"dbname"`
	SSLMode    string `koanf:"sslmode"`
	ConnString string `koanf:"connstring"`
}

// DefaultConfig returns the settings used when nothing is configured:
// a local PostgreSQL server without transport encryption.
func DefaultConfig() *Config {
	return &Config{
		Driver:  "postgres",
		Host:    "localhost",
		Port:    "5432",
		User:    "postgres",
		DBName:  "postgres",
		SSLMode: "disable",
	}
}

// LoadConfig builds a Config from defaults overridden by USERSTORE_*
// environment variables. A .env file in the working directory is read
// first if present; missing files are ignored.
func LoadConfig() (*Config, error) {
	_ = godotenv.Load()

	k := koanf.New(".")
	if err := k.Load(structs.Provider(DefaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("userstore: load config defaults: %w", err)
	}
	if err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(key, value string) (string, any) {
			return strings.ToLower(strings.TrimPrefix(key, envPrefix)), value
		},
	}), nil); err != nil {
		return nil, fmt.Errorf("userstore: load config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("userstore: unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Dialect resolves the dialect named by Driver.
func (c *Config) Dialect() (Dialect, error) {
	switch c.Driver {
	case "", "postgres", "pgx":
		return &PostgreSQLDialect{}, nil
	case "sqlite3", "sqlite":
		return &SQLiteDialect{}, nil
	default:
		return nil, fmt.Errorf("userstore: unsupported driver %q", c.Driver)
	}
}

// DSN assembles the connection string understood by the configured
// driver.
func (c *Config) DSN() string {
	if c.ConnString != "" {
		return c.ConnString
	}
	switch c.Driver {
	case "sqlite3", "sqlite":
		return ":memory:"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}
