package config

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/Astemirdum/library-issue-service/pkg/auth"
	"github.com/Astemirdum/library-issue-service/pkg/circuit_breaker"
	"github.com/Astemirdum/library-issue-service/pkg/kafka"
	"github.com/Astemirdum/library-issue-service/pkg/logger"
	"github.com/Astemirdum/library-issue-service/pkg/postgres"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const configFileEnv = "LIBRARY_CONFIG_FILE"

type HTTPServer struct {
	Host         string        `yaml:"host" envconfig:"LIBRARY_HTTP_HOST" default:"0.0.0.0"`
	Port         string        `yaml:"port" envconfig:"LIBRARY_HTTP_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"readTimeout" envconfig:"HTTP_READ"`
	WriteTimeout time.Duration `yaml:"writeTimeout" envconfig:"HTTP_WRITE"`
}

type Config struct {
	Server         HTTPServer             `yaml:"server"`
	Database       postgres.DB            `yaml:"db"`
	Kafka          kafka.Config           `yaml:"kafka"`
	CircuitBreaker circuit_breaker.Config `yaml:"circuitBreaker"`
	Auth           auth.Config            `yaml:"auth"`
	Log            logger.Log             `yaml:"log"`
}

var (
	once sync.Once
	cfg  *Config
)

// NewConfig reads the environment, overlays the optional yaml file, then applies options.
func NewConfig(ops ...Option) *Config {
	once.Do(func() {
		config, err := load(os.Getenv(configFileEnv))
		if err != nil {
			log.Fatal("NewConfig ", err)
		}
		for _, op := range ops {
			op(config)
		}
		cfg = config
	})

	return cfg
}

func load(path string) (*Config, error) {
	var config Config
	if err := envconfig.Process("", &config); err != nil {
		return nil, errors.Wrap(err, "envconfig.Process")
	}
	if path == "" {
		return &config, nil
	}
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config file")
	}
	if err := yaml.Unmarshal(buf, &config); err != nil {
		return nil, errors.Wrap(err, "parse config file")
	}
	return &config, nil
}
