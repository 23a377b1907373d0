package serviceconfig

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const CONFIG_SERVICE_PATH = "CONFIG_SERVICE_PATH"

type Config struct {
	HTTP  HTTPConfig  `yaml:"http"`
	Kafka KafkaConfig `yaml:"kafka"`
	NATS  NATSConfig  `yaml:"nats"`
	Auth  AuthConfig  `yaml:"auth"`
}

type HTTPConfig struct {
	Address string        `yaml:"address" env-default:"localhost:8080"`
	Timeout time.Duration `yaml:"timeout" env-default:"8s"`
}

type KafkaConfig struct {
	Broker     string `yaml:"broker" env-default:"localhost:9092"`
	AuditTopic string `yaml:"audit_topic" env-default:"crypto_audit"`
}

type NATSConfig struct {
	URL string `yaml:"url" env-default:"nats://localhost:4222"`
}

type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	TokenExpiry time.Duration `yaml:"token_expiry" env-default:"12h"`
}

// MustLoadServiceConfig reads the YAML file named by CONFIG_SERVICE_PATH, the
// split the teacher's serverConfig package used for its own address/timeout/
// Kafka settings, extended here with NATS and JWT fields.
func MustLoadServiceConfig() (*Config, error) {
	slog.Debug("loading service config")

	configPath := os.Getenv(CONFIG_SERVICE_PATH)
	if configPath == "" {
		return nil, fmt.Errorf("%s environment variable not set", CONFIG_SERVICE_PATH)
	}
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%s does not exist: %s", CONFIG_SERVICE_PATH, configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		return nil, fmt.Errorf("cannot load config file: %w", err)
	}
	return &cfg, nil
}
