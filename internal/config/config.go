package config

import (
	"flag"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env         string      `yaml:"env" env:"ENV" env-default:"local" validate:"oneof=local development production"`
	HTTPServer  HTTPServer  `yaml:"http_server"`
	Database    Database    `yaml:"database"`
	Redis       Redis       `yaml:"redis"`
	RateLimit   RateLimit   `yaml:"rate_limit"`
	Upload      Upload      `yaml:"upload"`
	Diagnostics Diagnostics `yaml:"diagnostics"`
}

type HTTPServer struct {
	Host            string        `yaml:"host" env:"HOST" env-default:"0.0.0.0"`
	Port            int           `yaml:"port" env:"PORT" env-default:"8000" validate:"min=1,max=65535"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"5s"`
}

// Address is the listen address in host:port form.
func (h HTTPServer) Address() string {
	return net.JoinHostPort(h.Host, strconv.Itoa(h.Port))
}

// Database points at the optional database probed by /test. The URL scheme
// selects the driver.
type Database struct {
	URL string `yaml:"url" env:"DATABASE_URL"`
}

type Redis struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0" validate:"min=0"`
}

type RateLimit struct {
	Enabled         bool  `yaml:"enabled" env:"RATE_LIMIT_ENABLED" env-default:"false"`
	Capacity        int64 `yaml:"capacity" env:"RATE_LIMIT_CAPACITY" env-default:"10" validate:"min=1"`
	RefillPerMinute int64 `yaml:"refill_per_minute" env:"RATE_LIMIT_REFILL" env-default:"10" validate:"min=1"`
}

type Upload struct {
	MaxMemoryBytes int64 `yaml:"max_memory_bytes" env:"UPLOAD_MAX_MEMORY_BYTES" env-default:"33554432" validate:"min=1024"`
	MaxBodyBytes   int64 `yaml:"max_body_bytes" env:"UPLOAD_MAX_BODY_BYTES" env-default:"536870912" validate:"min=1024"`
}

type Diagnostics struct {
	Timeout time.Duration `yaml:"timeout" env:"DIAGNOSTICS_TIMEOUT" env-default:"3s"`
}

// Load reads the YAML file at path (if any) and overlays the environment.
func Load(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist at path: %s", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to config file")
		flag.Parse()
		configPath = *flags
	}

	cfg, err := Load(configPath)
	if err != nil {
		log.Fatal(err)
	}

	return cfg
}
