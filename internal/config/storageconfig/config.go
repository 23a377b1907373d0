package storageconfig

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

const CONFIG_STORAGE_PATH = "CONFIG_STORAGE_PATH"

type Config struct {
	Host     string `yaml:"host" env-required:"true"`
	Port     string `yaml:"port" env-required:"true"`
	Username string `yaml:"username" env-required:"true"`
	Password string `yaml:"password" env-required:"true"`
	DBName   string `yaml:"db_name" env-required:"true"`
	SSLMode  string `yaml:"ssl_mode" env-required:"true"`
}

// MustLoadStorageConfig mirrors the teacher's storageConfig package: the
// Postgres DSN fragments used both by golang-migrate (via database/sql) and
// by the pgxpool runtime connection in internal/store.
func MustLoadStorageConfig() (*Config, error) {
	configPath := os.Getenv(CONFIG_STORAGE_PATH)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set", CONFIG_STORAGE_PATH)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s does not exist: %s", CONFIG_STORAGE_PATH, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot load database config file: %w", err)
	}
	return &cfg, nil
}

// DSN builds the postgres:// connection string golang-migrate and pgxpool
// both accept.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.Username, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}
